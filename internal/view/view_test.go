package view

import "testing"

func TestListKeepsFixedElementsAcrossReset(t *testing.T) {
	list := NewList(Element{Kind: KindUploadCard, Key: "upload"})
	list.Append(Element{Kind: KindVideoCard, Key: "a"})
	list.Append(Element{Kind: KindVideoCard, Key: "b"})

	children := list.Children()
	if len(children) != 3 || children[0].Key != "upload" || children[2].Key != "b" {
		t.Fatalf("unexpected children: %+v", children)
	}

	list.Reset()
	children = list.Children()
	if len(children) != 1 || children[0].Kind != KindUploadCard {
		t.Fatalf("expected only fixed element after reset, got %+v", children)
	}
	if len(list.Items()) != 0 {
		t.Fatalf("expected no items after reset")
	}
}

func TestListChildrenIsACopy(t *testing.T) {
	list := NewList()
	list.Append(Element{Key: "a"})

	children := list.Children()
	children[0].Key = "mutated"

	if list.Items()[0].Key != "a" {
		t.Fatal("mutating Children result must not affect the list")
	}
}
