// Package motionpath is the computation core of a motion-trajectory
// editor: it caches, aggregates, and edits the 3D path an animated
// object traces over time, so a host application only has to draw the
// results and route input.
//
// The library owns no scene and no curves. Hosts plug in through three
// small interfaces ([SceneAccessor] for transforms, [Curve] for
// animation channels, [Viewport] for projection) and every edit flows
// back out through them.
//
// # Tracks and caches
//
// A [Manager] follows objects; each followed object gets a [Track].
// The track keeps two caches:
//
// The parent matrix cache ([ParentMatrixCache]) stores the object's
// effective ancestor transform per frame. Host evaluation is the
// expensive part of everything this package does, so the cache is
// strictly incremental: covered range requests are free, overlapping
// ones fill only the missing frames, and large rebuilds gather host
// data sequentially and compose matrices on parallel workers.
//
// The keyframe cache aggregates the object's translation and rotation
// curves into composite [Keyframe] records: one per keyed time, with
// world positions, tangents, and displayed handle positions resolved
// through the parent matrix cache. Rebuild it with
// [Track.RebuildKeyframes] whenever curves or the display window
// change.
//
// Camera-relative display uses a per-viewport [CameraCache] of view
// matrices, shared by all tracks drawn in that viewport.
//
// # Editing
//
// [Track] applies edits directly to the host curves: adding, deleting,
// and moving keys, dragging keyed positions and tangent handles in
// world space, and pasting copied keys from a [Clipboard]. A
// [StrokeFit] refits existing keys onto a freehand [Stroke] or sketches
// new evenly spaced keys along one. [BufferPath] snapshots freeze a
// path as a ghost for comparison.
//
// # Demo
//
// demos/viewer is a runnable [Ebitengine] viewer that animates a small
// scene, implements [Viewport] over a simple perspective camera, and
// draws the cached path, keys, and stroke editing live.
//
// [Ebitengine]: https://ebitengine.org
package motionpath
