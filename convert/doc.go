// Package convert provides text conversions that run around the format step:
// read-side conversions rewrite raw cell text before it is parsed and
// write-side conversions rewrite printed text before it is emitted.
//
// Every conversion leaves a null cell null unless it exists to replace nulls
// (Default) or to produce them (NullConvert).
package convert
