// Package groundtruth imports ground truth objects from YAML documents.
//
// A document names the video it belongs to and lists its objects:
//
//	video: 6f1c7a52-1d51-4f0e-9b43-2a1bd8f0e9c1
//	replace: true
//	objects:
//	  - frame: 12
//	    timestamp: 0.4
//	    class: pedestrian
//	    box: {x: 100, y: 80, width: 40, height: 120}
//	  - frame: 30
//	    timestamp: 1.0
//	    class: cyclist
//	    difficult: true
//
// With replace (the default) the video's existing objects are swapped for
// the document's in one transaction; otherwise the objects are appended.
// Imported objects are marked validated unless the document says otherwise.
package groundtruth
