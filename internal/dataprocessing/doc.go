// Package dataprocessing ingests the raw audit inputs (shipment lines,
// tariff table, exclusion rules, carrier remap) and normalizes shipment
// records into canonical load-level units.
//
// Ingestion validates required columns up front and fails fast; the
// normalizer itself never fails on bad cell data. Missing warehouse, group
// or postal codes propagate as empty values and fall out later at rate
// matching, which treats them as unresolved rather than erroring.
package dataprocessing
