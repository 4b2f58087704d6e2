package cursor

import "github.com/navkit/navcursor/internal/document"

// markerObserver reduces batched class-attribute change notifications to a
// single focus signal per batch. The host coalesces mutations, so one
// callback may carry records for several elements; only the marker matters
// here, and only its state at delivery time.
type markerObserver struct {
	watcher document.Watcher
	tree    document.Tree
	marker  string
	cancel  func()
}

func newMarkerObserver(watcher document.Watcher, tree document.Tree, marker string) *markerObserver {
	return &markerObserver{watcher: watcher, tree: tree, marker: marker}
}

// observe subscribes over root's subtree. onChange receives the element that
// gained the marker, or nil when the batch left no live marker holder (the
// "no target" signal, distinct from no callback at all).
func (o *markerObserver) observe(root document.Element, onChange func(target document.Element)) {
	o.cancel = o.watcher.Watch(root, func(batch []document.Change) {
		onChange(o.selectTarget(batch))
	})
}

// selectTarget scans the batch in observation order and picks the first
// record whose target carries the marker right now. When several elements
// hold the marker simultaneously, observation order wins over document
// order; that tie-break is a deliberate simplification and callers rely on
// it being stable.
func (o *markerObserver) selectTarget(batch []document.Change) document.Element {
	for _, change := range batch {
		if change.Target == nil {
			continue
		}
		if o.tree.HasMarker(change.Target, o.marker) {
			return change.Target
		}
	}
	return nil
}

// disconnect stops all future notifications. Idempotent, safe before observe.
func (o *markerObserver) disconnect() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}
