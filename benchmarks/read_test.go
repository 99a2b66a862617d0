package benchmarks_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/reoring/rowskema"
	"github.com/reoring/rowskema/dsl"
	"github.com/reoring/rowskema/engine"
	"github.com/reoring/rowskema/fixedwidth"
	"github.com/reoring/rowskema/source"
)

type product struct {
	ID    int
	Name  string
	Price float64
}

// ---- Helpers ----

func productSchema(tb testing.TB, hashed bool) *rowskema.SchemaCache {
	tb.Helper()
	b := dsl.Record()
	id := b.Field("ID").Position(1).Required()
	if hashed {
		id.UniqueHash(nil)
	} else {
		id.Unique()
	}
	b.Field("Name").Position(2).Trim().LengthMax(32)
	b.Field("Price").Position(3).Min("0", true)
	cache, err := dsl.Compile[product](b)
	if err != nil {
		tb.Fatalf("schema build failed: %v", err)
	}
	return cache
}

func generateRows(n int) [][]string {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{strconv.Itoa(i + 1), " item " + strconv.Itoa(i) + " ", strconv.Itoa(i%500) + ".25"}
	}
	return rows
}

func benchmarkRead(b *testing.B, hashed bool) {
	cache := productSchema(b, hashed)
	rows := generateRows(10_000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := engine.NewReader[product](cache)
		recs, _, err := r.ReadAll(source.Slice(rows...), false)
		if err != nil {
			b.Fatal(err)
		}
		if len(recs) != len(rows) {
			b.Fatalf("got %d records", len(recs))
		}
	}
}

func BenchmarkRead_Unique(b *testing.B)     { benchmarkRead(b, false) }
func BenchmarkRead_UniqueHash(b *testing.B) { benchmarkRead(b, true) }

func BenchmarkWrite_FixedWidth(b *testing.B) {
	bd := dsl.Record().Fixed()
	bd.Field("ID").Position(1).FixedSize(fixedwidth.Column{Size: 8, PadChar: '0', RightAlign: true})
	bd.Field("Name").Position(2).FixedSize(fixedwidth.Column{Size: 20, Chopped: true})
	cache, err := dsl.Compile[product](bd)
	if err != nil {
		b.Fatal(err)
	}
	recs := make([]product, 1000)
	for i := range recs {
		recs[i] = product{ID: i, Name: strings.Repeat("名", i%15)}
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := engine.NewWriter[product](cache)
		if _, err := w.WriteAll(&source.Collector{}, recs, false); err != nil {
			b.Fatal(err)
		}
	}
}
