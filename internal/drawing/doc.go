// Package drawing is the canvas annotation surface attached to a task.
//
// A Surface turns pointer events into an ordered list of elements
// (rectangles, circles, text and pen or highlighter strokes), renders that
// list through a Painter and hands the serialized result to its host on
// save. Rendering is deterministic: the same elements and interaction state
// always produce the same sequence of Painter calls.
//
// Highlighter strokes committed in "behind" mode are inserted at the front
// of the document and carry an explicit layer tag, so paint order survives
// a save and reload unchanged.
package drawing
