// Package arena defines the flat, index-addressed encoding of a value graph
// and the codecs that turn it into bytes.
//
// A Document is an ordered list of elements plus the index of the root element.
// Elements refer to each other only through indices into that list, which lets
// a Document represent shared sub-values and reference cycles. The codecs
// (protobuf wire format, a custom binary format and JSON) are interchangeable
// and all implement IArenaCodec.
package arena
