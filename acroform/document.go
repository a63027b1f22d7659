package acroform

import (
	"sort"

	"github.com/benedoc-inc/acroedit/core/parse"
	"github.com/benedoc-inc/acroedit/core/write"
	"github.com/benedoc-inc/acroedit/types"
)

// Document is the entry point for every AcroForm action: it owns the
// frozen byte buffer, a resolver over it, and a patch queue of not-yet
// written edits, per spec 4.6.
type Document struct {
	raw      []byte
	resolver *parse.ObjectResolver
	patches  types.PatchQueue
	sink     types.Sink

	// lastAllocated is the highest object number AllocateRefs has handed out.
	lastAllocated int
}

// Option configures Open.
type Option func(*Document)

// WithSink directs diagnostic warnings to sink instead of the default
// slog-backed sink.
func WithSink(sink types.Sink) Option {
	return func(d *Document) { d.sink = sink }
}

// Open freezes raw and constructs a resolver over it, per spec 4.6
// Document::open.
func Open(raw []byte, opts ...Option) (*Document, error) {
	d := &Document{sink: types.NewSlogSink(nil)}
	for _, opt := range opts {
		opt(d)
	}

	frozen := append([]byte(nil), raw...)
	resolver, err := parse.NewResolver(frozen, d.sink)
	if err != nil {
		return nil, err
	}
	d.raw = frozen
	d.resolver = resolver
	return d, nil
}

// Sink returns the document's diagnostic sink.
func (d *Document) Sink() types.Sink { return d.sink }

// Raw returns the document's current frozen byte buffer.
func (d *Document) Raw() []byte { return d.raw }

// Resolver exposes the underlying object resolver for field actions.
func (d *Document) Resolver() *parse.ObjectResolver { return d.resolver }

// Patches exposes the pending patch queue for field actions to append to.
func (d *Document) Patches() *types.PatchQueue { return &d.patches }

// MaxObjectNumber returns the highest object number known either to the
// resolver or to the pending patch queue.
func (d *Document) MaxObjectNumber() int {
	max := 0
	d.resolver.EachObject(func(ref types.Ref, body []byte) bool {
		if ref.Num > max {
			max = ref.Num
		}
		return true
	})
	for _, p := range d.patches.Deduplicated() {
		if p.Ref.Num > max {
			max = p.Ref.Num
		}
	}
	return max
}

// AllocateRefs returns n fresh, never-before-used object references.
func (d *Document) AllocateRefs(n int) []types.Ref {
	base := d.MaxObjectNumber()
	if d.lastAllocated > base {
		base = d.lastAllocated
	}
	refs := make([]types.Ref, n)
	for i := 0; i < n; i++ {
		refs[i] = types.Ref{Num: base + 1 + i}
	}
	d.lastAllocated = base + n
	return refs
}

// ObjectBody returns an object's current body, preferring a pending patch
// over the resolver's on-disk copy so field actions can chain off of
// not-yet-written edits within the same Document session.
func (d *Document) ObjectBody(ref types.Ref) ([]byte, bool) {
	for _, p := range d.patches.Deduplicated() {
		if p.Ref == ref {
			return p.Body, true
		}
	}
	return d.resolver.ObjectBody(ref)
}

// EachObjectWithPatches invokes fn(ref, body) for every object the document
// currently knows about, preferring a pending patch's body over the
// resolver's on-disk copy, and visiting patched-but-not-yet-resolvable refs
// (objects allocated by AddField but never written) after every resolver
// object. This generalizes ObjectBody's "prefer pending patches" contract to
// a full scan, so callers like ListFields see newly-patched, not-yet-written
// edits per spec 4.6/4.7's "including newly-patched" requirement.
func (d *Document) EachObjectWithPatches(fn func(ref types.Ref, body []byte) bool) {
	patched := make(map[types.Ref][]byte)
	for _, p := range d.patches.Deduplicated() {
		patched[p.Ref] = p.Body
	}

	seen := make(map[types.Ref]bool, len(patched))
	stopped := false
	d.resolver.EachObject(func(ref types.Ref, body []byte) bool {
		seen[ref] = true
		if pb, ok := patched[ref]; ok {
			body = pb
		}
		if !fn(ref, body) {
			stopped = true
			return false
		}
		return true
	})
	if stopped {
		return
	}

	var newRefs []types.Ref
	for ref := range patched {
		if !seen[ref] {
			newRefs = append(newRefs, ref)
		}
	}
	sort.Slice(newRefs, func(i, j int) bool {
		if newRefs[i].Num != newRefs[j].Num {
			return newRefs[i].Num < newRefs[j].Num
		}
		return newRefs[i].Gen < newRefs[j].Gen
	})
	for _, ref := range newRefs {
		if !fn(ref, patched[ref]) {
			return
		}
	}
}

// Write runs the pending patch queue through the incremental writer,
// replacing the document's raw bytes and rebuilding its resolver, per spec
// 4.6 write. When flatten is true, the incremental result is immediately
// followed by a full rewrite.
func (d *Document) Write(flatten bool) ([]byte, error) {
	patches := d.patches.Deduplicated()
	next, err := write.Incremental(d.raw, patches)
	if err != nil {
		return nil, err
	}

	d.resolver.ClearObjStmCache()
	resolver, err := parse.NewResolver(next, d.sink)
	if err != nil {
		return nil, err
	}
	d.raw = next
	d.resolver = resolver
	d.patches.Reset()

	if flatten {
		return d.Flatten()
	}
	return d.raw, nil
}

// Flatten rewrites the document from scratch in a single revision, keeping
// every live object and the trailer's /Info reference if present, per spec
// 4.6 flatten.
func (d *Document) Flatten() ([]byte, error) {
	var objects []write.Object
	d.resolver.EachObject(func(ref types.Ref, body []byte) bool {
		objects = append(objects, write.Object{Ref: ref, Body: body})
		return true
	})
	sort.Slice(objects, func(i, j int) bool { return objects[i].Ref.Num < objects[j].Ref.Num })

	rootRef := d.resolver.RootRef()
	infoRef, _ := refValue(d.resolver.TrailerDict(), "Info")

	out, err := write.Rewrite(objects, rootRef, infoRef)
	if err != nil {
		return nil, err
	}

	resolver, err := parse.NewResolver(out, d.sink)
	if err != nil {
		return nil, err
	}
	d.raw = out
	d.resolver = resolver
	d.patches.Reset()
	return d.raw, nil
}

// acroFormRef locates the /AcroForm reference from the catalog, per the
// field actions' need to patch /Fields, /NeedAppearances, /DR, and /XFA.
func (d *Document) acroFormRef() (types.Ref, bool) {
	catalog, ok := d.ObjectBody(d.resolver.RootRef())
	if !ok {
		return types.Ref{}, false
	}
	return refValue(catalog, "AcroForm")
}

// findFieldByName locates a field by decoded /T name, preferring pending
// patches, for use by UpdateField/RemoveField, per spec 4.6 update_field
// and remove_field's "including newly-patched" requirement.
func (d *Document) findFieldByName(name string) (Field, bool) {
	for _, f := range d.ListFields() {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (d *Document) errorf(code types.PDFErrorCode, format string, args ...any) error {
	return types.NewPDFErrorf(code, format, args...)
}
