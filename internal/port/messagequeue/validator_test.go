package messagequeue

import (
	"strings"
	"testing"
)

func TestValidateValidNameRegistered(t *testing.T) {
	data := []byte(`{"id":"r1","name":"alice","owner":"0x01","tx_hash":"0xabc","value_wei":"1000"}`)
	if err := Validate(SubjectNameRegistered, data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateValidCollectionMinted(t *testing.T) {
	data := []byte(`{"address":"0x01","token_id":3,"owner":"0x02","tx_hash":"0xabc"}`)
	if err := Validate(SubjectCollectionMinted, data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateUnknownSubject(t *testing.T) {
	data := []byte(`{"foo":"bar"}`)
	if err := Validate("unknown.subject", data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateInvalidJSON(t *testing.T) {
	err := Validate(SubjectNameRegistered, []byte(`{not valid json`))
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "invalid JSON") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestValidateWrongFieldType(t *testing.T) {
	err := Validate(SubjectCollectionMinted, []byte(`{"token_id":"three"}`))
	if err == nil {
		t.Fatal("expected schema error for string token_id")
	}
	if !strings.Contains(err.Error(), "schema validation failed") {
		t.Fatalf("unexpected error message: %v", err)
	}
}
