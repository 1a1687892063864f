package bolt

import (
	"path/filepath"
	"testing"

	"github.com/etnz/cryptobook"
	"github.com/etnz/cryptobook/store/storetest"
	"github.com/rs/zerolog"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) cryptobook.Store {
		s, err := Open(filepath.Join(t.TempDir(), "book.bolt"), zerolog.Nop())
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		t.Cleanup(func() { s.Close() })
		return s
	})
}
