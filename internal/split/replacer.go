package split

import (
	"github.com/stellate-proxy/splitcache/internal/ast"
	"github.com/stellate-proxy/splitcache/internal/visit"
)

// replaceSelectionSet folds doc, swapping in replacement wherever the walk
// reaches target, and leaving every other selection set untouched. It is
// used by the work-list driver to cut the "remainder" branch of a split: the
// selection set at the split point is replaced by whatever selections were
// left behind after the splittable fields were pulled out.
func replaceSelectionSet(doc *ast.Document, target visit.Path, replacement *ast.SelectionSet) (*ast.Document, error) {
	r := &selectionSetReplacer{target: target, replacement: replacement}
	return visit.FoldDocument(doc, r)
}

type selectionSetReplacer struct {
	visit.BaseFolder
	target      visit.Path
	replacement *ast.SelectionSet
}

func (r *selectionSetReplacer) FoldSelectionSet(info visit.VisitInfo, s *ast.SelectionSet) (*ast.SelectionSet, error) {
	if info.Path.Equal(r.target) {
		return r.replacement, nil
	}
	return s, nil
}
