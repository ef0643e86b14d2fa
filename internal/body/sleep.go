package body

import "github.com/san-kum/rigid2d/internal/vec"

// SleepTick advances the idle timer. In body sleep mode the body falls
// asleep itself; with deferSleep it only records that it wants to.
func (b *Body) SleepTick(dt float64, deferSleep bool) {
	b.wantsToSleep = false
	if !b.AllowSleep || b.Type != Dynamic || b.sleepState == Sleeping {
		return
	}

	speedSq := b.velocity.LenSqr() + b.angularVelocity*b.angularVelocity
	limitSq := b.SleepSpeedLimit * b.SleepSpeedLimit
	if speedSq >= limitSq {
		b.idleTime = 0
		b.sleepState = Awake
	} else {
		b.idleTime += dt
		b.sleepState = Sleepy
	}

	if b.idleTime > b.SleepTimeLimit {
		if deferSleep {
			b.wantsToSleep = true
		} else {
			b.Sleep()
		}
	}
}

// Sleep freezes the body. It reports whether the state changed.
func (b *Body) Sleep() bool {
	if b.sleepState == Sleeping {
		return false
	}
	b.sleepState = Sleeping
	b.velocity = vec.Zero
	b.angularVelocity = 0
	b.force = vec.Zero
	b.torque = 0
	b.wantsToSleep = false
	return true
}

// WakeUp reports whether the body was asleep. A woken body asks the world
// to wake the rest of its island.
func (b *Body) WakeUp() bool {
	if b.sleepState != Sleeping {
		b.idleTime = 0
		if b.sleepState == Sleepy {
			b.sleepState = Awake
		}
		return false
	}
	b.sleepState = Awake
	b.idleTime = 0
	b.wakeRequested = true
	return true
}
