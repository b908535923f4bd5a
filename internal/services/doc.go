// Package services contains the service layer between the HTTP transport
// and the audit core. Services own orchestration and state (the run store,
// report files on disk); handlers stay thin and deal only with requests
// and responses.
package services
