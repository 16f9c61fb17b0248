package libio

var EncodeRgbeChunk = encodeRgbeChunk
var DecodeRgbeChunk = decodeRgbeChunk
