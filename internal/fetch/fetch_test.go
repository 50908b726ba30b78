package fetch

import "testing"

func TestBatchSymbols(t *testing.T) {
	symbols := []string{"A", "B", "C", "D", "E"}

	batches := batchSymbols(symbols, 2)
	if len(batches) != 3 {
		t.Fatalf("got %d batches, want 3", len(batches))
	}
	if len(batches[0]) != 2 || len(batches[2]) != 1 {
		t.Errorf("batch sizes = %d, %d, %d, want 2, 2, 1",
			len(batches[0]), len(batches[1]), len(batches[2]))
	}

	if got := batchSymbols(nil, 2); len(got) != 0 {
		t.Errorf("batching empty list produced %d batches, want 0", len(got))
	}
}
