// Package bernstein contains the opening book of the 1957 Bernstein chess program, used as
// a lightweight AI personality alongside the generic search engine.
package bernstein

import (
	"context"
	"github.com/kestrelgames/boardhouse/pkg/engine"
	"github.com/seekerror/logw"
)

// Book contains the Bernstein program's sole opening line: 1.e4.
var Book engine.Book

func init() {
	var err error
	Book, err = engine.NewBook([]engine.Line{
		{"e2e4"},
	})
	if err != nil {
		logw.Exitf(context.Background(), "Invalid book: %v", err)
	}
}
