package resolver

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// newTree builds:
//
//	root/
//	  index.html
//	  docs/
//	    a.txt
//	    b.txt
//	rootx/secret.txt (sibling sharing the root's name as a prefix)
//	outside.txt
func newTree(t *testing.T) (*Resolver, string) {
	t.Helper()
	base := t.TempDir()
	root := filepath.Join(base, "root")

	mustWrite(t, filepath.Join(root, "index.html"), "<p>hi</p>")
	mustWrite(t, filepath.Join(root, "docs", "a.txt"), "a")
	mustWrite(t, filepath.Join(root, "docs", "b.txt"), "b")
	mustWrite(t, filepath.Join(base, "rootx", "secret.txt"), "secret")
	mustWrite(t, filepath.Join(base, "outside.txt"), "outside")

	r, err := New(root)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r, base
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolve(t *testing.T) {
	r, _ := newTree(t)

	tests := []struct {
		name     string
		target   string
		wantKind Kind
		wantPath string
	}{
		{name: "Empty target is root", target: "", wantKind: Directory, wantPath: r.Root()},
		{name: "File", target: "index.html", wantKind: File, wantPath: filepath.Join(r.Root(), "index.html")},
		{name: "Directory", target: "docs", wantKind: Directory, wantPath: filepath.Join(r.Root(), "docs")},
		{name: "Trailing slash", target: "docs/", wantKind: Directory, wantPath: filepath.Join(r.Root(), "docs")},
		{name: "Nested file", target: "docs/a.txt", wantKind: File, wantPath: filepath.Join(r.Root(), "docs", "a.txt")},
		{name: "Missing", target: "missing.txt", wantKind: NotFound},
		{name: "Parent traversal", target: "../outside.txt", wantKind: NotFound},
		{name: "Deep traversal", target: "../../etc/passwd", wantKind: NotFound},
		{name: "Traversal back inside", target: "docs/../index.html", wantKind: File, wantPath: filepath.Join(r.Root(), "index.html")},
		{name: "Sibling with shared prefix", target: "../rootx/secret.txt", wantKind: NotFound},
		{name: "Root parent", target: "..", wantKind: NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.target)
			if got.Kind != tt.wantKind {
				t.Fatalf("Resolve(%q).Kind = %v, want %v", tt.target, got.Kind, tt.wantKind)
			}
			if got.Path != tt.wantPath {
				t.Errorf("Resolve(%q).Path = %q, want %q", tt.target, got.Path, tt.wantPath)
			}
		})
	}
}

func TestResolveSymlinkEscape(t *testing.T) {
	r, base := newTree(t)

	if err := os.Symlink(filepath.Join(base, "outside.txt"), filepath.Join(r.Root(), "link.txt")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	if err := os.Symlink(filepath.Join(r.Root(), "docs", "a.txt"), filepath.Join(r.Root(), "inner.txt")); err != nil {
		t.Fatal(err)
	}

	if got := r.Resolve("link.txt"); got.Kind != NotFound {
		t.Errorf("Resolve(link.txt).Kind = %v, want not found", got.Kind)
	}
	if got := r.Resolve("inner.txt"); got.Kind != File {
		t.Errorf("Resolve(inner.txt).Kind = %v, want file", got.Kind)
	}
}

func TestList(t *testing.T) {
	r, _ := newTree(t)

	got, err := r.List(r.Root())
	if err != nil {
		t.Fatalf("List(root) error = %v", err)
	}
	if want := []string{"docs", "index.html"}; !reflect.DeepEqual(got, want) {
		t.Errorf("List(root) = %v, want %v", got, want)
	}

	got, err = r.List(filepath.Join(r.Root(), "docs"))
	if err != nil {
		t.Fatalf("List(docs) error = %v", err)
	}
	if want := []string{"docs/a.txt", "docs/b.txt"}; !reflect.DeepEqual(got, want) {
		t.Errorf("List(docs) = %v, want %v", got, want)
	}
}

func TestListRemovedDirectory(t *testing.T) {
	r, _ := newTree(t)
	dir := filepath.Join(r.Root(), "docs")

	resolved := r.Resolve("docs")
	if resolved.Kind != Directory {
		t.Fatalf("Resolve(docs).Kind = %v, want directory", resolved.Kind)
	}
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	if _, err := r.List(resolved.Path); err == nil {
		t.Error("List() on removed directory should fail")
	}
}

func TestNew(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	mustWrite(t, file, "x")

	if _, err := New(filepath.Join(dir, "nope")); err == nil {
		t.Error("New() with missing root should fail")
	}
	if _, err := New(file); err == nil {
		t.Error("New() with file root should fail")
	}
	r, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !filepath.IsAbs(r.Root()) {
		t.Errorf("Root() = %q, want absolute path", r.Root())
	}
}
