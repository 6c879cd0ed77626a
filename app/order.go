package app

import (
	"context"

	"github.com/ktr0731/protoorder/cui"
	"github.com/ktr0731/protoorder/generator"
	"github.com/ktr0731/protoorder/graph"
	"github.com/ktr0731/protoorder/logger"
	"github.com/ktr0731/protoorder/present"
	"github.com/ktr0731/protoorder/present/json"
	"github.com/ktr0731/protoorder/present/name"
	"github.com/ktr0731/protoorder/present/table"
	"github.com/ktr0731/protoorder/proto"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// orderFiles compiles fnames and orders the messages of each file. Files are
// ordered concurrently; the results keep the order of fnames.
func orderFiles(
	ctx context.Context,
	importPaths, fnames []string,
	layout proto.Layout,
	verify bool,
) ([]*generator.FileGenerator, error) {
	fds, err := proto.Compile(ctx, importPaths, fnames)
	if err != nil {
		return nil, err
	}

	gens := make([]*generator.FileGenerator, len(fds))
	eg, ctx := errgroup.WithContext(ctx)
	for i, fd := range fds {
		i, fd := i, fd
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := proto.Convert(fd, layout)
			if err != nil {
				return errors.Wrapf(err, "failed to convert %s", fd.Path())
			}
			g, err := generator.New(f)
			if err != nil {
				return err
			}
			if verify {
				if err := g.Verify(); err != nil {
					return errors.Wrapf(err, "failed to verify the order of %s", fd.Path())
				}
				logger.Printf("%s: the order is verified", fd.Path())
			}
			gens[i] = g
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return gens, nil
}

type messageView struct {
	Name     string   `json:"name" table:"message"`
	Index    int      `json:"index" table:"index"`
	MapEntry bool     `json:"mapEntry" table:"map entry"`
	HardDeps []string `json:"hardDeps" table:"hard deps"`
	SoftDeps []string `json:"softDeps" table:"soft deps"`
}

type fileView struct {
	File     string         `json:"file"`
	Messages []*messageView `json:"messages"`
}

type filesView struct {
	Files []*fileView `json:"files"`
}

func newFileView(gen *generator.FileGenerator) *fileView {
	g := gen.Graph()
	deps := func(edges []graph.Edge) []string {
		names := make([]string, 0, len(edges))
		for _, e := range edges {
			names = append(names, g.Node(e.To).Message.FullName)
		}
		return names
	}

	v := &fileView{File: gen.File().Path}
	for _, m := range gen.MessagesInTopologicalOrder() {
		n, _ := g.Lookup(m.FullName)
		v.Messages = append(v.Messages, &messageView{
			Name:     m.FullName,
			Index:    n.Index,
			MapEntry: m.MapEntry,
			HardDeps: deps(g.HardEdges(n)),
			SoftDeps: deps(g.SoftEdges(n)),
		})
	}
	return v
}

func presenter(format string) present.Presenter {
	switch format {
	case "table":
		return table.NewPresenter()
	case "json":
		return json.NewPresenter()
	}
	return name.NewPresenter()
}

// render writes gens to ui in format. name and table print each file in
// turn; json prints one document holding every file.
func render(ui cui.UI, format string, gens []*generator.FileGenerator) error {
	p := presenter(format)
	views := make([]*fileView, len(gens))
	for i, gen := range gens {
		views[i] = newFileView(gen)
	}

	if format == "json" {
		out, err := p.Format(&filesView{Files: views}, "  ")
		if err != nil {
			return errors.Wrap(err, "failed to format the orders")
		}
		ui.Println(out)
		return nil
	}
	for _, v := range views {
		if len(gens) > 1 {
			ui.InfoPrintln(v.File)
		}
		out, err := p.Format(v, "  ")
		if err != nil {
			return errors.Wrapf(err, "failed to format the order of %s", v.File)
		}
		ui.Println(out)
	}
	return nil
}
