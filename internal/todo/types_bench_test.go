package todo

import (
	"fmt"
	"testing"
	"time"

	"github.com/nibzard/tarefas-go/internal/storage"
)

// BenchmarkLoad benchmarks decoding and validating a task blob.
func BenchmarkLoad(b *testing.B) {
	data, err := Encode(createTestTasks(3))
	if err != nil {
		b.Fatal(err)
	}
	mem := storage.NewMemory(data)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := Open(mem)
		if s.Len() != 3 {
			b.Fatalf("Load: got %d tasks, want 3", s.Len())
		}
	}
}

// BenchmarkLoadLarge benchmarks loading 100 tasks.
func BenchmarkLoadLarge(b *testing.B) {
	data, err := Encode(createTestTasks(100))
	if err != nil {
		b.Fatal(err)
	}
	mem := storage.NewMemory(data)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if s := Open(mem); s.Len() != 100 {
			b.Fatalf("Load: got %d tasks, want 100", s.Len())
		}
	}
}

// BenchmarkPersist benchmarks encoding and writing 100 tasks.
func BenchmarkPersist(b *testing.B) {
	mem := storage.NewMemory(nil)
	s := Open(mem)
	s.tasks = createTestTasks(100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.Persist(); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkView benchmarks filtering and sorting 100 tasks.
func BenchmarkView(b *testing.B) {
	s := Open(storage.NewMemory(nil))
	s.tasks = createTestTasks(100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		n := 0
		for range s.View(StatusPending, PriorityAll) {
			n++
		}
		if n == 0 {
			b.Fatal("empty view")
		}
	}
}

// BenchmarkToggle benchmarks a toggle including the write.
func BenchmarkToggle(b *testing.B) {
	s := Open(storage.NewMemory(nil))
	s.tasks = createTestTasks(100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := s.Toggle(50); err != nil {
			b.Fatal(err)
		}
	}
}

func createTestTasks(n int) []Task {
	created := NewTimestamp(time.Date(2026, 1, 1, 8, 0, 0, 0, time.Local))
	tasks := make([]Task, n)
	for i := 0; i < n; i++ {
		tasks[i] = Task{
			ID:          i + 1,
			Description: fmt.Sprintf("Tarefa %d", i+1),
			Priority:    Priorities[i%len(Priorities)],
			Category:    DefaultCategory,
			CreatedAt:   created,
		}
		if i%4 == 0 {
			done := created
			tasks[i].Completed = true
			tasks[i].CompletedAt = &done
		}
	}
	return tasks
}
