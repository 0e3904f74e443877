package quad

import "golang.org/x/sync/errgroup"

// split refines both halves at the given depth. When a worker token is free
// the right half runs on its own goroutine; the merge order is fixed, so the
// result does not depend on scheduling.
func (t *traversal) split(a, c, b float64, left, right Estimate, depth int) (branch, error) {
	if !t.acquire() {
		lb, err := t.refine(a, c, left, depth)
		if err != nil {
			return branch{}, err
		}
		rb, err := t.refine(c, b, right, depth)
		if err != nil {
			return branch{}, err
		}
		return merge(lb, rb), nil
	}

	var g errgroup.Group
	var rb branch
	g.Go(func() error {
		defer t.release()
		var err error
		rb, err = t.refine(c, b, right, depth)
		return err
	})

	lb, lerr := t.refine(a, c, left, depth)
	rerr := g.Wait()
	if lerr != nil {
		return branch{}, lerr
	}
	if rerr != nil {
		return branch{}, rerr
	}
	return merge(lb, rb), nil
}

func (t *traversal) acquire() bool {
	if t.tokens == nil {
		return false
	}
	select {
	case t.tokens <- struct{}{}:
		return true
	default:
		return false
	}
}

func (t *traversal) release() {
	<-t.tokens
}
