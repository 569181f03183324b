// Package synclog records when sync cycles ran and whether they succeeded.
package synclog
