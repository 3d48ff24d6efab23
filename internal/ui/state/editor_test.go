package state

import (
	"reflect"
	"testing"
)

func TestEditorInsertAndDelete(t *testing.T) {
	var e LineEditor

	if !e.Insert("ab") {
		t.Fatal("expected insert to succeed")
	}
	if e.Text != "ab" || e.Cursor != 2 {
		t.Fatalf("unexpected editor state %q/%d", e.Text, e.Cursor)
	}

	e.Cursor = 1
	if !e.Insert("z") {
		t.Fatal("expected insert in middle to succeed")
	}
	if e.Text != "azb" || e.Cursor != 2 {
		t.Fatalf("unexpected editor state %q/%d", e.Text, e.Cursor)
	}

	if !e.DeleteBackward() {
		t.Fatal("expected rune deletion to succeed")
	}
	if e.Text != "ab" || e.Cursor != 1 {
		t.Fatalf("unexpected state after delete %q/%d", e.Text, e.Cursor)
	}

	e.SetEnd("abc def")
	if !e.DeleteWordBackward() {
		t.Fatal("expected word deletion to succeed")
	}
	if e.Text != "abc " {
		t.Fatalf("expected trailing word removed, got %q", e.Text)
	}

	e.Set("abc", 0)
	if e.DeleteBackward() {
		t.Fatal("expected delete at start to fail")
	}
	if e.Insert("") {
		t.Fatal("expected empty insert to fail")
	}

	e.Set("abc def", 4)
	if !e.DeleteToStart() || e.Text != "def" || e.Cursor != 0 {
		t.Fatalf("unexpected state after delete to start %q/%d", e.Text, e.Cursor)
	}
}

func TestEditorCursorNavigation(t *testing.T) {
	var e LineEditor
	e.SetEnd("one two")

	if !e.MoveWordBackward() {
		t.Fatal("expected word backward movement")
	}
	if e.Cursor != 4 {
		t.Fatalf("expected cursor at 4, got %d", e.Cursor)
	}
	if !e.MoveWordForward() {
		t.Fatal("expected word forward movement")
	}
	if e.Cursor != len("one two") {
		t.Fatalf("expected cursor at end, got %d", e.Cursor)
	}
	if !e.MoveBackward() || e.Cursor != len("one two")-1 {
		t.Fatalf("expected cursor len-1, got %d", e.Cursor)
	}
	if !e.MoveForward() || e.Cursor != len("one two") {
		t.Fatalf("expected cursor at end, got %d", e.Cursor)
	}
	if e.MoveForward() {
		t.Fatal("expected no movement past end")
	}
	if !e.MoveStart() || e.Cursor != 0 {
		t.Fatalf("expected cursor at 0, got %d", e.Cursor)
	}
	if !e.MoveEnd() {
		t.Fatal("expected move back to end")
	}
}

func TestEditorMultibyte(t *testing.T) {
	var e LineEditor
	e.SetEnd("héllo")
	if e.Cursor != 5 {
		t.Fatalf("expected rune cursor 5, got %d", e.Cursor)
	}
	e.DeleteBackward()
	if e.Text != "héll" {
		t.Fatalf("unexpected text %q", e.Text)
	}
}

func TestFilterByLabel(t *testing.T) {
	items := []string{"default", "orders", "payments", "order-archive"}
	label := func(s string) string { return s }

	got := FilterByLabel(items, "ord", label)
	want := []string{"orders", "order-archive"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if all := FilterByLabel(items, "  ", label); !reflect.DeepEqual(all, items) {
		t.Fatalf("expected all items for empty query, got %v", all)
	}
	if idx := BestMatchIndex(items, "payments", label); idx != 2 {
		t.Fatalf("expected exact match index 2, got %d", idx)
	}
	if idx := BestMatchIndex([]string{}, "x", label); idx != -1 {
		t.Fatalf("expected -1 for empty items, got %d", idx)
	}
}
