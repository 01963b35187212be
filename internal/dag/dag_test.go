package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestTopologicalSortEmptyGraph(t *testing.T) {
	t.Parallel()
	order, err := New().TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != nil {
		t.Fatalf("expected nil, got %v", order)
	}
}

func TestTopologicalSortLinearChain(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("A", "B")
	g.AddEdge("B", "C")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"A", "B", "C"}; !slices.Equal(order, want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
}

func TestTopologicalSortKeepsInsertionOrderForPeers(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddNode("Z")
	g.AddNode("A")
	g.AddEdge("M", "A")
	g.AddEdge("M", "A")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"Z", "M", "A"}; !slices.Equal(order, want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	if got := g.Successors("M"); !slices.Equal(got, []string{"A"}) {
		t.Fatalf("duplicate edge should be ignored, got %v", got)
	}
}

func TestTopologicalSortDiamond(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("A", "B")
	g.AddEdge("A", "C")
	g.AddEdge("B", "D")
	g.AddEdge("C", "D")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"A", "B", "C", "D"}; !slices.Equal(order, want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
}

func TestTopologicalSortReportsCyclePath(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddNode("X")
	g.AddEdge("B", "A")
	g.AddEdge("A", "B")

	_, err := g.TopologicalSort()
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if want := []string{"B", "A", "B"}; !slices.Equal(cycleErr.Cycle, want) {
		t.Fatalf("expected cycle %v, got %v", want, cycleErr.Cycle)
	}
	if cycleErr.Error() != "dependency cycle detected: B -> A -> B" {
		t.Fatalf("unexpected message %q", cycleErr.Error())
	}
}

func TestTopologicalSortSelfLoop(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("A", "A")

	_, err := g.TopologicalSort()
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if want := []string{"A", "A"}; !slices.Equal(cycleErr.Cycle, want) {
		t.Fatalf("expected cycle %v, got %v", want, cycleErr.Cycle)
	}
}
