// Package session drives a symptom-intake conversation on top of a
// diagnosis.Brain.
//
// A conversation moves through three phases:
//
//	AwaitingEvidence --answer--> Inferring --more to ask--> AwaitingEvidence
//	                                       \--nothing left--> Finished
//
// Each session carries its own evidence map, so concurrent conversations
// never share state. Calls on the same session are serialised by the Manager.
package session
