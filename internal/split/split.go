// Package split implements the cache-aware query splitting pipeline: a
// single incoming GraphQL document is inlined, then repeatedly cut at
// selection sets whose fields carry different max-ages, until every
// resulting document addresses exactly one age bucket. Each bucket's
// document is eligible to be served from (or populated into) the edge
// cache independently of the others.
package split

import (
	"github.com/samsarahq/go/oops"

	"github.com/stellate-proxy/splitcache/internal/ast"
	"github.com/stellate-proxy/splitcache/internal/fragments"
	"github.com/stellate-proxy/splitcache/internal/manifest"
	"github.com/stellate-proxy/splitcache/internal/schema"
)

// Result is one age bucket's document. MaxAge is nil for a document that
// was never cut at a split point, whether or not its fields carry a cache
// policy.
type Result struct {
	MaxAge   *uint64
	Document *ast.Document
}

// workItem is one document queued for another pass of the splitter, and
// the max-age its caller already committed it to.
type workItem struct {
	document *ast.Document
	maxAge   *uint64
}

// Split inlines every fragment spread in doc, then repeatedly splits the
// result on manifest-driven max-age boundaries until no selection set
// needs to be cut further. The returned Results are keyed by distinct
// max-age buckets (nil key for a document that never reached a split
// point, whatever its fields' cache policy); any two
// documents that land in the same bucket, from different split points in
// the original query, are merged into one.
func Split(doc *ast.Document, sch *schema.Schema, man *manifest.Manifest, operationName *string) ([]Result, error) {
	inlined, err := fragments.Inline(doc)
	if err != nil {
		return nil, oops.Wrapf(err, "inlining fragments")
	}

	work := []workItem{{document: inlined, maxAge: nil}}
	documentSplits := make(map[uint64]*ast.Document)
	var noAgeDocument *ast.Document

	for len(work) > 0 {
		item := work[len(work)-1]
		work = work[:len(work)-1]

		point, err := findSplit(item.document, sch, man, operationName)
		if err != nil {
			return nil, oops.Wrapf(err, "splitting query")
		}

		if point == nil {
			if item.maxAge == nil {
				if noAgeDocument == nil {
					noAgeDocument = item.document
				} else {
					merged, err := mergeDocuments(noAgeDocument, item.document, operationName)
					if err != nil {
						return nil, oops.Wrapf(err, "merging split documents")
					}
					noAgeDocument = merged
				}
				continue
			}
			age := *item.maxAge
			if existing, ok := documentSplits[age]; ok {
				merged, err := mergeDocuments(existing, item.document, operationName)
				if err != nil {
					return nil, oops.Wrapf(err, "merging split documents")
				}
				documentSplits[age] = merged
			} else {
				documentSplits[age] = item.document
			}
			continue
		}

		remainderDoc, err := replaceSelectionSet(item.document, point.Path, point.Remainder)
		if err != nil {
			return nil, oops.Wrapf(err, "replacing selection set at %s", point.Path)
		}
		work = append(work, workItem{document: remainderDoc, maxAge: point.MaxAge})

		for age, selectionSet := range point.Splits {
			age := age
			skeleton, err := extractSkeleton(item.document, point.Path, selectionSet)
			if err != nil {
				return nil, oops.Wrapf(err, "extracting selection set at %s", point.Path)
			}
			work = append(work, workItem{document: skeleton, maxAge: &age})
		}
	}

	var results []Result
	if noAgeDocument != nil {
		results = append(results, Result{MaxAge: nil, Document: noAgeDocument})
	}
	for age, document := range documentSplits {
		age := age
		results = append(results, Result{MaxAge: &age, Document: document})
	}
	return results, nil
}
