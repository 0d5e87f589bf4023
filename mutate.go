package taskview

import "context"

// Optimistic mutation flow, identical for all three operations:
// validate -> apply local patch atomically across every affected cached
// view (capturing each view's exact prior snapshot) -> real request ->
// reconcile on success or restore the snapshots on failure -> schedule a
// scope-wide background invalidation so views the optimistic step could
// not fully simulate (shifted pages, untouched filters) catch up with the
// server. Every step after validation runs detached from the caller's
// context: a cancellation mid-flight must not be able to fail the rollback
// or reconciliation writes.

// placeholder synthesizes the local stand-in record for a create: a
// transient client-generated id, current timestamps, server defaults for
// omitted fields, and the pending marker.
func (cl *client) placeholder(in CreateInput) Task {
	now := cl.now()
	t := Task{
		ID:        cl.newID(),
		Title:     in.Title,
		Status:    StatusTodo,
		Priority:  PriorityMedium,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
		Pending:   true,
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.DueDate != nil {
		d := *in.DueDate
		t.DueDate = &d
	}
	if in.Tags != nil {
		t.Tags = append([]string(nil), in.Tags...)
	}
	return t
}

func (cl *client) Create(ctx context.Context, in CreateInput) (Task, error) {
	if err := ValidateCreate(in); err != nil {
		return Task{}, err
	}
	scope := cl.activeScope()
	ph := cl.placeholder(in)

	// Detach from caller cancellation for the whole mutation: rollback
	// bookkeeping needs every store write to complete, not just the request.
	ctx = context.WithoutCancel(ctx)

	// First-page views whose filter the placeholder matches get it
	// prepended; deeper pages and non-matching filters are left alone.
	touched := cl.store.update(ctx, scope, func(f Filter, v ListView) (ListView, bool) {
		if !f.firstPage() || !f.Matches(ph) {
			return v, false
		}
		v.Items = append([]Task{ph.clone()}, v.Items...)
		if max := f.effectivePageSize(); len(v.Items) > max {
			v.Items = v.Items[:max]
		}
		v.Total++
		return v, true
	})

	created, err := cl.tr.create(ctx, in)
	if err != nil {
		cl.store.restore(ctx, scope, touched)
		cl.scheduleInvalidate(scope)
		return Task{}, Coerce(err)
	}

	// Reconcile: swap the placeholder for the confirmed record wherever it
	// survived; views that match the confirmed record but never held the
	// placeholder get it inserted under the same first-page rule.
	cl.store.update(ctx, scope, func(f Filter, v ListView) (ListView, bool) {
		if i := v.indexOf(ph.ID); i >= 0 {
			v.Items[i] = created.clone()
			return v, true
		}
		if f.firstPage() && f.Matches(created) && v.indexOf(created.ID) < 0 {
			v.Items = append([]Task{created.clone()}, v.Items...)
			if max := f.effectivePageSize(); len(v.Items) > max {
				v.Items = v.Items[:max]
			}
			v.Total++
			return v, true
		}
		return v, false
	})

	cl.scheduleInvalidate(scope)
	return created, nil
}

func (cl *client) Update(ctx context.Context, id string, p Patch) (Task, error) {
	if err := ValidateID(id); err != nil {
		return Task{}, err
	}
	if err := ValidatePatch(p); err != nil {
		return Task{}, err
	}
	scope := cl.activeScope()
	ctx = context.WithoutCancel(ctx)

	// Patch in place wherever the record is cached. Membership is not
	// re-evaluated here: a record the patch moved out of a view's filter
	// stays visible, marked pending, until reconciliation.
	now := cl.now()
	touched := cl.store.update(ctx, scope, func(f Filter, v ListView) (ListView, bool) {
		i := v.indexOf(id)
		if i < 0 {
			return v, false
		}
		v.Items[i] = p.apply(v.Items[i])
		v.Items[i].Pending = true
		v.Items[i].UpdatedAt = now
		return v, true
	})

	confirmed, err := cl.tr.update(ctx, id, p)
	if err != nil {
		cl.store.restore(ctx, scope, touched)
		cl.scheduleInvalidate(scope)
		return Task{}, Coerce(err)
	}

	// Reconcile: confirmed record replaces the local patch where the
	// view's filter still matches it; where it no longer matches, the
	// record leaves the view. Views that never held the record are not
	// back-filled here; the background invalidation catches them up.
	cl.store.update(ctx, scope, func(f Filter, v ListView) (ListView, bool) {
		i := v.indexOf(id)
		if i < 0 {
			return v, false
		}
		if f.Matches(confirmed) {
			v.Items[i] = confirmed.clone()
		} else {
			v.Items = append(v.Items[:i], v.Items[i+1:]...)
			if v.Total > 0 {
				v.Total--
			}
		}
		return v, true
	})

	cl.scheduleInvalidate(scope)
	return confirmed, nil
}

func (cl *client) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	scope := cl.activeScope()
	ctx = context.WithoutCancel(ctx)

	touched := cl.store.update(ctx, scope, func(f Filter, v ListView) (ListView, bool) {
		i := v.indexOf(id)
		if i < 0 {
			return v, false
		}
		v.Items = append(v.Items[:i], v.Items[i+1:]...)
		if v.Total > 0 {
			v.Total--
		}
		return v, true
	})

	if err := cl.tr.delete(ctx, id); err != nil {
		cl.store.restore(ctx, scope, touched)
		cl.scheduleInvalidate(scope)
		return Coerce(err)
	}

	// Removal already applied optimistically; success is a no-op.
	cl.scheduleInvalidate(scope)
	return nil
}
