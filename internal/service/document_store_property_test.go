package service_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"productdesc/internal/domain"
	"productdesc/internal/service"
)

// op is one step of a random edit sequence: kind 0 adds, 1 removes,
// 2 duplicates; pick selects the target among the current blocks.
type op struct {
	Kind int
	Pick int
}

func genOps() gopter.Gen {
	return gen.SliceOf(gopter.CombineGens(gen.IntRange(0, 2), gen.IntRange(0, 50)).Map(
		func(vals []interface{}) op {
			return op{Kind: vals[0].(int), Pick: vals[1].(int)}
		},
	))
}

func TestDocumentStoreProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("block ids stay pairwise unique", prop.ForAll(
		func(ops []op) bool {
			s := service.NewDocumentStore(nil)
			s.CreateDocument("prop")
			for _, o := range ops {
				d, _ := s.Document()
				switch o.Kind {
				case 0:
					bt := domain.BlockTypes[o.Pick%len(domain.BlockTypes)]
					if _, err := s.AddBlock(service.BlockSpec{Type: bt}); err != nil {
						return false
					}
				case 1:
					if len(d.Blocks) > 0 {
						s.RemoveBlock(d.Blocks[o.Pick%len(d.Blocks)].ID)
					}
				case 2:
					if len(d.Blocks) > 0 {
						if _, err := s.DuplicateBlock(d.Blocks[o.Pick%len(d.Blocks)].ID); err != nil {
							return false
						}
					}
				}
			}
			d, _ := s.Document()
			seen := map[string]bool{}
			for _, b := range d.Blocks {
				if seen[b.ID] {
					return false
				}
				seen[b.ID] = true
			}
			return true
		},
		genOps(),
	))

	properties.Property("reorder(i,j) then reorder(j,i) restores order", prop.ForAll(
		func(n, i, j int) bool {
			s := service.NewDocumentStore(nil)
			s.CreateDocument("prop")
			for k := 0; k < n; k++ {
				_, _ = s.AddBlock(service.BlockSpec{Type: domain.BlockTypeText})
			}
			before, _ := s.Document()
			i, j = i%n, j%n

			s.Reorder(i, j)
			mid, _ := s.Document()
			if len(mid.Blocks) != n {
				return false
			}
			s.Reorder(j, i)
			after, _ := s.Document()

			for k := range before.Blocks {
				if before.Blocks[k].ID != after.Blocks[k].ID {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 12),
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
