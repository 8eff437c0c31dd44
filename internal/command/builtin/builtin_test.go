package builtin

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/marcelocantos/reason/internal/command"
	"github.com/marcelocantos/reason/internal/config"
	"github.com/marcelocantos/reason/internal/pipeline"
	"github.com/marcelocantos/reason/internal/store"
)

type fixture struct {
	t    *testing.T
	exec *pipeline.Executor
	st   *store.Store
	cfg  *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		t:    t,
		exec: pipeline.NewExecutor(NewRegistry()),
		st:   store.New(),
		cfg:  config.DefaultConfig(),
	}
	f.mustRun(`add 'ShadowTutor: Distributed Partial Distillation' by 'Jae-Won Chung, Jae-Yun Kim' at ICDM in 2020 as shadowtutor with edge`)
	f.mustRun(`add Zeus: Understanding and Optimizing GPU Energy by 'Jie You, Jae-Won Chung' at NSDI in 2023 as zeus with energy,gpu`)
	f.mustRun(`add 'Attention Is All You Need' by 'Ashish Vaswani' at NeurIPS in 2017`)
	return f
}

func (f *fixture) run(line string) (command.Output, error) {
	return f.exec.Run(context.Background(), pipeline.Tokenize(line), f.st, f.cfg)
}

func (f *fixture) mustRun(line string) command.Output {
	f.t.Helper()
	out, err := f.run(line)
	if err != nil {
		f.t.Fatalf("%s: %v", line, err)
	}
	return out
}

// names runs line and returns the nicknames (or titles) of the resulting papers.
func (f *fixture) names(line string) []string {
	f.t.Helper()
	out := f.mustRun(line)
	ps, ok := out.(command.Papers)
	if !ok {
		f.t.Fatalf("%s: expected papers, got %#v", line, out)
	}
	papers, err := f.st.Lookup(ps.IDs)
	if err != nil {
		f.t.Fatal(err)
	}
	names := []string{}
	for _, p := range papers {
		if p.Nickname != "" {
			names = append(names, p.Nickname)
		} else {
			names = append(names, p.Title)
		}
	}
	return names
}

func (f *fixture) paper(nickname string) store.Paper {
	f.t.Helper()
	for _, p := range f.st.All() {
		if p.Nickname == nickname {
			return p
		}
	}
	f.t.Fatalf("no paper %q", nickname)
	return store.Paper{}
}

func (f *fixture) message(line string) string {
	f.t.Helper()
	out := f.mustRun(line)
	msg, ok := out.(command.Message)
	if !ok {
		f.t.Fatalf("%s: expected message, got %#v", line, out)
	}
	return msg.Text
}

func expectNames(t *testing.T, got []string, want ...string) {
	t.Helper()
	if want == nil {
		want = []string{}
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestAddParsesFields(t *testing.T) {
	f := newFixture(t)
	p := f.paper("shadowtutor")
	if p.Title != "ShadowTutor: Distributed Partial Distillation" {
		t.Errorf("title %q", p.Title)
	}
	if !reflect.DeepEqual(p.Authors, []string{"Jae-Won Chung", "Jae-Yun Kim"}) {
		t.Errorf("authors %q", p.Authors)
	}
	if p.Venue != "ICDM" || p.Year != 2020 {
		t.Errorf("venue/year %q %d", p.Venue, p.Year)
	}
	// Unquoted title words are joined with spaces.
	if got := f.paper("zeus").Title; got != "Zeus: Understanding and Optimizing GPU Energy" {
		t.Errorf("title %q", got)
	}
	if got := f.paper("zeus").Tags; !reflect.DeepEqual(got, []string{"energy", "gpu"}) {
		t.Errorf("tags %q", got)
	}
}

func TestAddErrors(t *testing.T) {
	f := newFixture(t)
	for _, line := range []string{
		"add",
		"add by Someone",
		"add Title in soon",
		"add Title by",
		"add Other as zeus",
		"ls | add Title",
	} {
		_, err := f.run(line)
		var usage *command.UsageError
		if !errors.As(err, &usage) {
			t.Errorf("%s: expected UsageError, got %v", line, err)
		}
	}
	if f.st.Len() != 3 {
		t.Errorf("expected 3 papers, got %d", f.st.Len())
	}
}

func TestLs(t *testing.T) {
	f := newFixture(t)
	expectNames(t, f.names("ls"), "shadowtutor", "zeus", "Attention Is All You Need")
	expectNames(t, f.names("ls shadow"), "shadowtutor")
	expectNames(t, f.names("ls by Chung"), "shadowtutor", "zeus")
	expectNames(t, f.names("ls by Chung | ls at NSDI"), "zeus")
	expectNames(t, f.names("ls with nothing"))
}

func TestLsRejectsMessageInput(t *testing.T) {
	f := newFixture(t)
	_, err := f.run("count | ls")
	var mismatch *command.KindMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected KindMismatchError, got %v", err)
	}
	if mismatch.Command != "ls" || mismatch.Got != command.KindMessage {
		t.Errorf("unexpected mismatch %+v", mismatch)
	}
}

func TestTagUntag(t *testing.T) {
	f := newFixture(t)
	expectNames(t, f.names("ls by Chung | tag reading gpu"), "shadowtutor", "zeus")

	if got := f.paper("shadowtutor").Tags; !reflect.DeepEqual(got, []string{"edge", "reading", "gpu"}) {
		t.Errorf("shadowtutor tags %q", got)
	}
	// Existing tags are not duplicated.
	if got := f.paper("zeus").Tags; !reflect.DeepEqual(got, []string{"energy", "gpu", "reading"}) {
		t.Errorf("zeus tags %q", got)
	}

	f.mustRun("ls with reading | untag READING")
	expectNames(t, f.names("ls with reading"))

	for _, line := range []string{"tag gpu", "ls | tag", "count | tag x"} {
		if _, err := f.run(line); err == nil {
			t.Errorf("%s: expected error", line)
		}
	}
}

func TestRm(t *testing.T) {
	f := newFixture(t)
	if _, err := f.run("rm"); err == nil {
		t.Fatal("expected bare rm to be refused")
	}
	if got := f.message("ls by Chung | rm at NSDI"); got != "removed 1 paper" {
		t.Errorf("unexpected message %q", got)
	}
	if got := f.message("rm in 2017"); got != "removed 1 paper" {
		t.Errorf("unexpected message %q", got)
	}
	expectNames(t, f.names("ls"), "shadowtutor")
}

// A failing stage keeps the effects of the stages before it.
func TestFailureAfterMutationKeepsMutation(t *testing.T) {
	f := newFixture(t)
	_, err := f.run("ls zeus | tag hot | sort bogus")
	var usage *command.UsageError
	if !errors.As(err, &usage) || usage.Command != "sort" {
		t.Fatalf("expected sort usage error, got %v", err)
	}
	if !f.paper("zeus").HasTag("hot") {
		t.Error("expected tag from the completed stage to remain")
	}
}

func TestRemovedReferencesFailDownstream(t *testing.T) {
	f := newFixture(t)
	// rm hands on a message, so a later paper command cannot consume it.
	_, err := f.run("ls zeus | rm | tag x")
	var mismatch *command.KindMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected KindMismatchError, got %v", err)
	}
	expectNames(t, f.names("ls"), "shadowtutor", "Attention Is All You Need")
}

func TestSet(t *testing.T) {
	f := newFixture(t)
	f.mustRun("ls zeus | set venue 'NSDI 23'")
	f.mustRun("ls zeus | set notes energy is a first-class resource")
	f.mustRun("ls zeus | set authors 'Jie You, Jae-Won Chung, Mosharaf Chowdhury'")
	f.mustRun("ls Attention | set nickname transformer")

	p := f.paper("zeus")
	if p.Venue != "NSDI 23" || p.Notes != "energy is a first-class resource" || len(p.Authors) != 3 {
		t.Errorf("unexpected paper %+v", p)
	}
	_ = f.paper("transformer")

	for _, line := range []string{
		"ls | set nickname dup",
		"ls shadow | set nickname zeus",
		"ls zeus | set colour red",
		"ls zeus | set year soon",
		"ls zeus | set title",
		"set venue X",
	} {
		if _, err := f.run(line); err == nil {
			t.Errorf("%s: expected error", line)
		}
	}
}

func TestWhere(t *testing.T) {
	f := newFixture(t)
	expectNames(t, f.names(`where 'year >= 2020'`), "shadowtutor", "zeus")
	expectNames(t, f.names(`where '"gpu" in tags'`), "zeus")
	expectNames(t, f.names(`ls by Chung | where 'venue == "ICDM"'`), "shadowtutor")
	expectNames(t, f.names(`where len(authors) == 1`), "Attention Is All You Need")

	for _, line := range []string{
		"where",
		"where 'year >='",
		"where undefined_name",
		"count | where True",
	} {
		if _, err := f.run(line); err == nil {
			t.Errorf("%s: expected error", line)
		}
	}
}

func TestSortAndHead(t *testing.T) {
	f := newFixture(t)
	expectNames(t, f.names("sort year"), "Attention Is All You Need", "shadowtutor", "zeus")
	expectNames(t, f.names("sort -r year"), "zeus", "shadowtutor", "Attention Is All You Need")
	expectNames(t, f.names("sort title | head 2"), "Attention Is All You Need", "shadowtutor")
	expectNames(t, f.names("ls by Chung | sort author"), "shadowtutor", "zeus")
	expectNames(t, f.names("head 0"))
	expectNames(t, f.names("head 10"), "shadowtutor", "zeus", "Attention Is All You Need")

	for _, line := range []string{"sort", "sort pages", "head -1", "head 1 2"} {
		if _, err := f.run(line); err == nil {
			t.Errorf("%s: expected error", line)
		}
	}
}

func TestCount(t *testing.T) {
	f := newFixture(t)
	if got := f.message("count"); got != "3 papers" {
		t.Errorf("got %q", got)
	}
	if got := f.message("ls zeus | count"); got != "1 paper" {
		t.Errorf("got %q", got)
	}
	if got := f.message("ls nothing-matches | count"); got != "0 papers" {
		t.Errorf("got %q", got)
	}
}

func TestShow(t *testing.T) {
	f := newFixture(t)
	got := f.message("ls zeus | show")
	for _, want := range []string{"Zeus: Understanding", "nickname: zeus", "venue:    NSDI", "tags:     energy, gpu"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in:\n%s", want, got)
		}
	}
	if got := f.message("show by Knuth"); got != "no papers" {
		t.Errorf("got %q", got)
	}
}

func TestOpen(t *testing.T) {
	f := newFixture(t)
	var opened []string
	open := &Open{run: func(_ context.Context, viewer, path string) error {
		opened = append(opened, viewer+" "+path)
		return nil
	}}
	f.exec = pipeline.NewExecutor(command.NewRegistry(&Ls{}, &Set{}, open))
	f.cfg.Viewer = "zathura"

	f.mustRun("ls zeus | set filepath /papers/zeus.pdf")
	if _, ok := f.mustRun("ls zeus | open").(command.None); !ok {
		t.Fatal("expected no output")
	}
	if !reflect.DeepEqual(opened, []string{"zathura /papers/zeus.pdf"}) {
		t.Errorf("opened %q", opened)
	}

	for _, line := range []string{"open", "ls shadow | open"} {
		if _, err := f.run(line); err == nil {
			t.Errorf("%s: expected error", line)
		}
	}
}

func TestHelp(t *testing.T) {
	f := newFixture(t)
	overview := f.message("help")
	for _, name := range []string{"add", "ls", "where", "exit", "quit"} {
		if !strings.Contains(overview, "  "+name) {
			t.Errorf("expected %q in overview", name)
		}
	}
	if got := f.message("help count"); got != "count - count piped papers, or the whole collection\nusage: count" {
		t.Errorf("got %q", got)
	}
	_, err := f.run("help bogus")
	var unknown *command.UnknownCommandError
	if !errors.As(err, &unknown) {
		t.Errorf("expected UnknownCommandError, got %v", err)
	}
}

func TestExit(t *testing.T) {
	f := newFixture(t)
	for _, line := range []string{"exit", "quit", "ls | exit"} {
		if _, err := f.run(line); !errors.Is(err, command.ErrExitRequested) {
			t.Errorf("%s: expected ErrExitRequested, got %v", line, err)
		}
	}
}
