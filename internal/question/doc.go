// Package question picks the next symptom to ask about.
//
// The score of a candidate is the binary entropy of its positive-state
// marginal. A node the model is least sure about (p near 0.5) scores highest.
// This is a proxy for expected information gain about the diseases and is
// intentionally cheap: it needs nothing beyond the marginals inference already
// produced.
package question
