// Package plugin configures how Qt locates its plugins and whether it
// installs its own signal handlers.
//
// Qt reads this configuration from the process environment once, when the
// QCoreApplication (or QGuiApplication/QApplication) object is constructed.
// Everything in this package must therefore run before that point; calling it
// afterwards has no effect on the running Qt instance.
//
// None of the functions synchronize with each other. If several goroutines
// configure the environment, the last write before Qt initializes wins.
package plugin
