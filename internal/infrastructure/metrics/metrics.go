package metrics

import (
    "expvar"
    "sort"
    "strconv"
)

// Session metrics keyed by node id or collaborator name.
var (
    advances             = expvar.NewMap("spockhart_advances_total")
    collaboratorFailures = expvar.NewMap("spockhart_collaborator_failures_total")
)

// Scalar counters.
var (
    restartsTotal = new(expvar.Int)
    exportsTotal  = new(expvar.Int)
)

func init() {
    expvar.Publish("spockhart_restarts_total", restartsTotal)
    expvar.Publish("spockhart_exports_total", exportsTotal)
}

// Session helpers
func IncAdvance(nodeID string) { advances.Add(nodeID, 1) }
func IncRestarts()             { restartsTotal.Add(1) }
func IncExports()              { exportsTotal.Add(1) }

// Collaborator helpers
func IncCollaboratorFailure(name string) { collaboratorFailures.Add(name, 1) }

// Sample is one rendered counter value.
type Sample struct {
    Name  string
    Label string
    Value int64
}

// Read returns every counter in a deterministic order.
func Read() []Sample {
    out := []Sample{
        {Name: "spockhart_restarts_total", Value: restartsTotal.Value()},
        {Name: "spockhart_exports_total", Value: exportsTotal.Value()},
    }
    out = append(out, readMap("spockhart_advances_total", advances)...)
    out = append(out, readMap("spockhart_collaborator_failures_total", collaboratorFailures)...)
    return out
}

func readMap(name string, m *expvar.Map) []Sample {
    var sub []Sample
    m.Do(func(kv expvar.KeyValue) {
        v, _ := strconv.ParseInt(kv.Value.String(), 10, 64)
        sub = append(sub, Sample{Name: name, Label: kv.Key, Value: v})
    })
    sort.Slice(sub, func(i, j int) bool { return sub[i].Label < sub[j].Label })
    return sub
}
