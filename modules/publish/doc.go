// Package publish registers a local installer/uninstaller pair: copying
// an export directory to a publish location and removing it again,
// satisfying the Installer/Uninstaller contract of spec.md sections 3 and
// 4.3 without implying any real remote-deployment mechanism (explicitly
// out of scope per spec.md section 1).
package publish
