package kiwi

import "testing"

func TestSplitIntoChunksSplitsOnSentenceFinalPunct(t *testing.T) {
	chunks := splitIntoChunks("안녕하세요. 반갑습니다!", 0)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if chunks[0].byteStart != 0 || chunks[1].byteStart != chunks[0].byteEnd {
		t.Errorf("chunks are not contiguous: %+v", chunks)
	}
}

func TestSplitIntoChunksCollapsesRepeatedPunct(t *testing.T) {
	chunks := splitIntoChunks("정말요?! 네.", 0)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2 (repeated ?! should not split mid-run)", len(chunks))
	}
}

func TestSplitIntoChunksNoBoundaryYieldsOneChunk(t *testing.T) {
	chunks := splitIntoChunks("경계가없다", 0)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].utf16Start != 0 || chunks[0].utf16End != len([]rune("경계가없다")) {
		t.Errorf("unexpected span: %+v", chunks[0])
	}
}

func TestSplitIntoChunksEmptyInput(t *testing.T) {
	chunks := splitIntoChunks("", 0)
	if len(chunks) != 1 || chunks[0].byteEnd != 0 {
		t.Errorf("expected a single empty span, got %+v", chunks)
	}
}
