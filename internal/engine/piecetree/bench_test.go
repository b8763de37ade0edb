package piecetree

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/dshills/piecetree/internal/engine/search"
)

// generateText creates a document of roughly size bytes in short lines.
func generateText(size int) string {
	var sb strings.Builder
	sb.Grow(size)

	words := []string{"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog", "hello", "world"}
	lineLen := 0
	rng := rand.New(rand.NewSource(1))
	for sb.Len() < size {
		word := words[rng.Intn(len(words))]
		if lineLen > 60 {
			sb.WriteByte('\n')
			lineLen = 0
		} else if sb.Len() > 0 {
			sb.WriteByte(' ')
			lineLen++
		}
		sb.WriteString(word)
		lineLen += len(word)
	}
	return sb.String()
}

func BenchmarkTyping(b *testing.B) {
	for _, size := range []int{1000, 100000, 1000000} {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			tr := build(b, generateText(size))
			offset := tr.Length() / 2
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = tr.Insert(offset, "x", false)
				offset++
			}
		})
	}
}

func BenchmarkRandomEdits(b *testing.B) {
	for _, size := range []int{1000, 100000, 1000000} {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			tr := build(b, generateText(size))
			rng := rand.New(rand.NewSource(2))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				off := rng.Intn(tr.Length())
				if i%2 == 0 {
					_ = tr.Insert(off, "edit\n", false)
				} else {
					_ = tr.Delete(off, 5)
				}
			}
		})
	}
}

func BenchmarkLineContentSequential(b *testing.B) {
	for _, size := range []int{100000, 1000000} {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			tr := build(b, generateText(size))
			for i := 0; i < 100; i++ {
				_ = tr.Insert((i*7919)%tr.Length(), "\n", false)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				for line := 1; line <= tr.LineCount(); line++ {
					_ = tr.LineContent(line)
				}
			}
		})
	}
}

func BenchmarkFindMatches(b *testing.B) {
	tr := build(b, generateText(1000000))
	data, _ := search.Params{Pattern: "lazy dog", MatchCase: true}.Compile()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tr.FindMatches(tr.fullRange(), data, false, 0)
	}
}
