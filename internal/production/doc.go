// Package production provides integrations around a simulated heap and its
// collectors: phase-event publishing, report export, DOT visualization and
// Prometheus metrics. Everything here uses only the public surface of the heap
// and gc packages.
package production
