// Package editor implements the editing surface: the single owner of the
// logical text, its highlighted ranges, and the rendered tree.
//
// Every input runs through three states:
//
//	Idle ──input──▶ Editing ──mutation──▶ Reconciling ──callbacks──▶ Idle
//
// While Editing the surface applies exactly one logical mutation to the
// buffer and re-anchors ranges once per discrete edit. While Reconciling it
// re-segments the text, patches the tree, restores the caret through the
// caret translator, updates range activation and fires its callbacks. Input
// that arrives while the surface is not Idle, for example from inside a
// callback, is rejected with ErrBusy.
package editor
