// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package feed

import (
	"errors"
	"reflect"
	"testing"

	"github.com/toeirei/signwatch/internal/model"
)

func TestDecodeList(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"list","data":[{"cmd":"a","version":"1","path":"/p","uin":"1"}]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []model.ServiceRecord{{Cmd: "a", Version: "1", Path: "/p", Uin: "1"}}
	if msg.Kind != KindList || !reflect.DeepEqual(msg.Records, want) {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestDecodeEmptyListIsSnapshot(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"list","data":[]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if msg.Kind != KindList || msg.Records == nil || len(msg.Records) != 0 {
		t.Fatalf("empty list should replace with an empty snapshot, got %+v", msg)
	}
}

func TestDecodePush(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"push","data":{"cmd":"b","version":"2","path":"/p","uin":"2"}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if msg.Kind != KindPush || len(msg.Records) != 1 || msg.Records[0].Uin != "2" {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, in := range []string{"", "not json", "[1,2]", `"str"`, `{"type":`, "42"} {
		if _, err := Decode([]byte(in)); !errors.Is(err, ErrMalformed) {
			t.Fatalf("Decode(%q) error = %v, want ErrMalformed", in, err)
		}
	}
}

func TestDecodeIgnoredShapes(t *testing.T) {
	inputs := []string{
		`{}`,
		`{"type":"hello"}`,
		`{"type":"keepalive"}`,
		`{"type":"list"}`,
		`{"type":"list","data":{"cmd":"a"}}`,
		`{"type":"list","data":null}`,
		`{"type":"push"}`,
		`{"type":"push","data":null}`,
		`{"type":"push","data":[1]}`,
		`{"type":"push","data":{"cmd":5}}`,
	}
	for _, in := range inputs {
		msg, err := Decode([]byte(in))
		if err != nil {
			t.Fatalf("Decode(%s) unexpected error: %v", in, err)
		}
		if msg.Known() {
			t.Fatalf("Decode(%s) should be ignored, got %+v", in, msg)
		}
	}
}

func TestEncodeRequests(t *testing.T) {
	if got := string(ListRequest()); got != `{"type":"list"}` {
		t.Fatalf("ListRequest() = %s", got)
	}
	if got := string(KeepaliveRequest()); got != `{"type":"keepalive"}` {
		t.Fatalf("KeepaliveRequest() = %s", got)
	}
	if _, err := Encode(KindPush); err == nil {
		t.Fatalf("expected error encoding a push request")
	}
}
