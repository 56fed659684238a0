package testutil

// SmokingCancerHCL is the smallest network with a known closed-form
// posterior: P(cancer) = 0.3*0.15 + 0.7*0.01 = 0.052.
const SmokingCancerHCL = `
network "smoking_cancer" {}

node "smoking" {
  role   = "risk"
  states = ["yes", "no"]
  cpt    = [[0.3, 0.7]]
}

node "cancer" {
  role    = "disease"
  states  = ["yes", "no"]
  parents = ["smoking"]
  cpt     = [[0.15, 0.85], [0.01, 0.99]]
}

node "xray" {
  states   = ["abnormal", "normal"]
  question = "Has a recent X-ray shown any abnormalities?"
}

edge {
  parent = "cancer"
  child  = "xray"
}
`

// CyclicHCL declares a -> b -> a.
const CyclicHCL = `
node "a" {
  states  = ["yes", "no"]
  parents = ["b"]
}

node "b" {
  states  = ["yes", "no"]
  parents = ["a"]
}
`
