// Package filter defines the Druid filter tree.
//
// Node is a sealed interface: only types in this package implement it, so
// renderers such as filtersql can switch over every kind exhaustively.
// Leaf nodes are plain values and never change after construction. The two
// composites, And and Or, are pointers whose child list grows while a
// condition builder appends to them.
//
// Every node serializes through ToIR to the JSON shape Druid expects in a
// native query's "filter" field:
//
//	filter.Marshal(&filter.And{Fields: []filter.Node{
//	    filter.Selector{Dimension: "country", Value: "nl"},
//	    filter.Bound{Dimension: "age", Operator: ">=", Value: "18"},
//	}})
//
// produces
//
//	{"fields":[{"dimension":"country","type":"selector","value":"nl"},
//	 {"dimension":"age","lower":"18","lowerStrict":false,"ordering":"numeric","type":"bound"}],
//	 "type":"and"}
package filter
