// Package location stores the GPS history of the tracker fleet.
//
// SQLite holds the authoritative history; accepted fixes are additionally
// mirrored to InfluxDB for time-series queries when telemetry is enabled.
package location
