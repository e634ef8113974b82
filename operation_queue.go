package depot

type operation struct {
	typ    operationType
	entity Entity
	meta   ComponentMetadata
	value  any
	bundle []any
}

type operationType int

const (
	opSpawn operationType = iota
	opDespawn
	opAddComponent
	opRemoveComponent
)

func (t operationType) String() string {
	switch t {
	case opSpawn:
		return "spawn"
	case opDespawn:
		return "despawn"
	case opAddComponent:
		return "add_component"
	case opRemoveComponent:
		return "remove_component"
	}
	return "unknown"
}

// opQueue holds operations issued while queries run. They are replayed in
// issue order.
type opQueue struct {
	ops            []operation
	pendingDespawn map[Entity]struct{}
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDespawn: make(map[Entity]struct{}),
	}
}

func (q *opQueue) Len() int {
	return len(q.ops)
}

func (q *opQueue) EnqueueSpawn(bundle []any) {
	q.ops = append(q.ops, operation{
		typ:    opSpawn,
		bundle: bundle,
	})
}

func (q *opQueue) EnqueueDespawn(entities []Entity) {
	for _, e := range entities {
		if _, exists := q.pendingDespawn[e]; exists {
			continue
		}
		q.pendingDespawn[e] = struct{}{}
		q.ops = append(q.ops, operation{
			typ:    opDespawn,
			entity: e,
		})
	}
}

// EnqueueComponentOp queues an add or remove. Operations on an entity already
// queued for despawn are dropped: by the time they would run, the id may belong
// to someone else.
func (q *opQueue) EnqueueComponentOp(typ operationType, e Entity, meta ComponentMetadata, value any) {
	if _, isDespawned := q.pendingDespawn[e]; isDespawned {
		Config.log().Debug().
			Stringer("op", typ).
			Uint32("entity_id", uint32(e)).
			Msg("dropped operation on entity pending despawn")
		return
	}
	q.ops = append(q.ops, operation{
		typ:    typ,
		entity: e,
		meta:   meta,
		value:  value,
	})
}

func (w *World) processOperationQueue() {
	if len(w.opQueue.ops) == 0 {
		return
	}
	applied := 0
	// Callbacks fired while applying may queue more work; keep draining.
	for len(w.opQueue.ops) > 0 {
		ops := w.opQueue.ops
		w.opQueue.ops = nil
		clear(w.opQueue.pendingDespawn)
		for _, op := range ops {
			if err := w.apply(op); err != nil {
				Config.log().Warn().
					Err(err).
					Stringer("op", op.typ).
					Uint32("entity_id", uint32(op.entity)).
					Msg("queued operation failed")
				continue
			}
			applied++
		}
	}
	Config.log().Debug().Int("applied", applied).Msg("operation queue drained")
}

func (w *World) apply(op operation) error {
	switch op.typ {
	case opSpawn:
		w.Spawn(op.bundle...)
	case opDespawn:
		w.Despawn(op.entity)
	case opAddComponent:
		return w.addComponent(op.entity, op.meta, op.value)
	case opRemoveComponent:
		return w.removeComponent(op.entity, op.meta)
	}
	return nil
}
