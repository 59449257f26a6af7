// Package codectest provides a shared conformance suite for arena codecs.
//
// Every implementation of arena.IArenaCodec should pass RunCodecTests:
//
//	func TestMyCodec(t *testing.T) {
//		codectest.RunCodecTests(t, "MyCodec", NewMyCodec)
//	}
package codectest
