package symast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Konfuzian/symbolic-language/symerr"
)

func TestDocumentImportPaths(t *testing.T) {
	doc := &Document{
		Imports: []Import{
			{Path: "base.sym", Span: symerr.Span{Origin: "<test>"}},
			{Path: "extra.sym", Span: symerr.Span{Origin: "<test>"}},
		},
	}
	require.Equal(t, []string{"base.sym", "extra.sym"}, doc.ImportPaths())
}

func TestDocumentImportPathsEmpty(t *testing.T) {
	doc := &Document{}
	require.Equal(t, []string{}, doc.ImportPaths())
}
