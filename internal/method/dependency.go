package method

// Dependency is a subscription a method has made to some other record
// (an interface type's caller/ancestor-asker table, or another method's
// body-asker table). When the method is tagged or deleted it walks its
// dependency list and calls Unregister on each, sweeping itself out of
// every set it ever joined.
//
// Implementations live in whichever package owns the set being
// subscribed to (interfacetype-style callers live in package hierarchy;
// body-asker sets live right here) — this interface is what lets
// internal/method avoid importing internal/hierarchy at all.
type Dependency interface {
	// Unregister removes self from whatever set this dependency
	// represents. Called at most once per subscription.
	Unregister(self *Impl)
}

// bodyAskerDep is the dependency record created when one method asks for
// another's body via the GetMethodBody hook.
type bodyAskerDep struct {
	target *Impl
}

func (d *bodyAskerDep) Unregister(self *Impl) {
	d.target.mu.Lock()
	delete(d.target.bodyAskers, self)
	d.target.mu.Unlock()
}
