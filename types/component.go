package types

// ComponentID is the dense column id assigned to a component type the first
// time a World encounters it. Ids start at 0 and are never reused or
// reassigned for the life of the World.
type ComponentID int
