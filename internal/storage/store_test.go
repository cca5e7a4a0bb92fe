package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()

	mem, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	file, err := Open(filepath.Join(t.TempDir(), "state", "legalease.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		_ = mem.Close()
		_ = file.Close()
	})

	return map[string]Store{
		"sqlite-memory": mem,
		"sqlite-file":   file,
		"memory":        NewMemory(),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get(ctx, KeyCurrentContractID); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get() on empty store error = %v, want ErrNotFound", err)
			}

			if err := s.Set(ctx, KeyCurrentContractID, "c-1"); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if err := s.Set(ctx, KeyCurrentContractID, "c-2"); err != nil {
				t.Fatalf("Set() overwrite error = %v", err)
			}

			got, err := s.Get(ctx, KeyCurrentContractID)
			if err != nil || got != "c-2" {
				t.Fatalf("Get() = %q, %v; want c-2", got, err)
			}

			if err := s.Set(ctx, ConversationKey("c-2"), "conv-9"); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			keys, err := s.Keys(ctx)
			if err != nil {
				t.Fatalf("Keys() error = %v", err)
			}
			want := []string{"chat_conv_c-2", "current_contract_id"}
			if !reflect.DeepEqual(keys, want) {
				t.Errorf("Keys() = %v, want %v", keys, want)
			}

			if err := s.Delete(ctx, KeyCurrentContractID); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, ok, err := Lookup(ctx, s, KeyCurrentContractID); ok || err != nil {
				t.Errorf("Lookup() after delete = ok %v, err %v", ok, err)
			}
		})
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	type record struct {
		ID       string `json:"id"`
		Filename string `json:"filename"`
	}

	in := record{ID: "42", Filename: "nda.pdf"}
	if err := SetJSON(ctx, s, KeyContract, in); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}

	var out record
	if err := GetJSON(ctx, s, KeyContract, &out); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if out != in {
		t.Errorf("GetJSON() = %+v, want %+v", out, in)
	}

	_ = s.Set(ctx, "broken", "{not json")
	if err := GetJSON(ctx, s, "broken", &out); err == nil {
		t.Error("GetJSON() on malformed value should fail")
	}
}

func TestKeyHelpers(t *testing.T) {
	if AnalysisKey("7") != "analysis_7" {
		t.Errorf("AnalysisKey() = %s", AnalysisKey("7"))
	}
	if ConversationKey("7") != "chat_conv_7" {
		t.Errorf("ConversationKey() = %s", ConversationKey("7"))
	}
}
