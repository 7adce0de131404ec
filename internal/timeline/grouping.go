package timeline

// GroupByResource partitions events by their resolved relation to a
// resource. Events whose relation does not resolve to a string or number are
// skipped; malformed linking data degrades gracefully instead of failing a
// render. Arrival order is preserved within each bucket.
func GroupByResource(events []Record, relation Accessor) map[Identifier][]Record {
	return groupEvents(events, relation, nil)
}

func groupEvents(events []Record, relation Accessor, onDrop func(Drop)) map[Identifier][]Record {
	groups := make(map[Identifier][]Record)
	for _, ev := range events {
		id, ok := IdentifierOf(relation.Resolve(ev, DefaultRelationField))
		if !ok {
			if onDrop != nil {
				onDrop(Drop{Reason: DropInvalidRelation, Record: ev})
			}
			continue
		}
		groups[id] = append(groups[id], ev)
	}
	return groups
}
