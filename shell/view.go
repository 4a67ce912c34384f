package shell

import (
	"context"

	"github.com/mitchellh/go-glint"
)

// Body implements glint.Component.
func (s *Shell) Body(context.Context) glint.Component {
	lines := s.Lines()
	return glint.Layout(
		glint.Style(glint.Text(lines[0]), glint.Bold(), glint.Color("green")),
		glint.Text(lines[1]),
		glint.Style(glint.Text(lines[2]), glint.Color("blue")),
	)
}

// Render redraws s on the terminal until ctx is cancelled.
func Render(ctx context.Context, s *Shell) {
	d := glint.New()
	d.Append(s)
	d.Render(ctx)
}
