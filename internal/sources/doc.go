// Package sources reads the raw catalog inputs (override document,
// spreadsheet export, asset trees, rate sheet). Optional reads report a
// domain.SourceStatus next to the value and degrade to a default.
package sources

import jsoniter "github.com/json-iterator/go"

var json = jsoniter.ConfigCompatibleWithStandardLibrary
