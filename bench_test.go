package abnfc

import (
	"context"
	"os"
	"testing"
)

func BenchmarkCompileJSON(b *testing.B) {
	data, err := os.ReadFile("testdata/grammars/rfc/json.abnf")
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	b.SetBytes(int64(len(data)))
	for b.Loop() {
		if _, err := Compile(ctx, data, "json.abnf", WithInline(true)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompileAll(b *testing.B) {
	src, err := Dir("testdata/grammars")
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	for b.Loop() {
		if _, err := CompileAll(ctx, src); err != nil {
			b.Fatal(err)
		}
	}
}
