// Package dataset reads QA records from JSON array or line-delimited JSON
// files as a lazy, forward-only iteration.
package dataset
