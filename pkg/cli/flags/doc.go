// Package flags names the flags shared across commands and reads them back.
package flags
