// Package intake turns free text into evidence. It holds the caller-side
// metadata of a network (question text, labels, keywords) and knows how to
// read a yes/no answer or pick findings out of a document.
package intake
