// Package testutil provides fakes for the transcription pipeline: a
// Transcriber, a HistoryStore, a Converter, plus audio fixtures and a test
// server that hands out recorded audio.
//
//	transcriber := testutil.NewMockTranscriber().WithDefaultResponse("hello")
//	history := testutil.NewMockHistoryStore()
//	o := session.NewOrchestrator(testutil.NewMockConverter(), transcriber, history,
//	    session.NewHTTPFetcher(0), zap.NewNop())
//
// All fakes are safe for concurrent use.
package testutil
