// Package watcher keeps a gitglob enumeration current while a tree changes.
//
// A Watcher watches every non-ignored directory under a root with fsnotify,
// skipping ignored subtrees entirely. Events are debounced to coalesce the
// bursts editors and git produce, and changes to .gitignore files are
// reported as OpGitignoreChange so callers can drop cached rules.
//
// A Reconciler turns event batches into changes of the non-ignored file
// set:
//
//	w, err := watcher.New(watcher.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	rec := watcher.NewReconciler(client)
//	if _, err := rec.Prime(ctx); err != nil {
//	    return err
//	}
//	go func() { _ = w.Start(ctx, root) }()
//
//	for batch := range w.Events() {
//	    change, err := rec.Apply(ctx, batch)
//	    ...
//	}
package watcher
