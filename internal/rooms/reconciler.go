package rooms

import (
	"context"
	"log"
	"time"
)

const defaultPassTimeout = 30 * time.Second

// Reconciler periodically drives the coordinator's Reconcile operation so
// rooms whose provider session ended without a clean leave sequence are
// still collected.
type Reconciler struct {
	log      *log.Logger
	svc      Service
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewReconciler(logger *log.Logger, svc Service, interval time.Duration) *Reconciler {
	return &Reconciler{
		log:      logger,
		svc:      svc,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (r *Reconciler) Run() {
	go r.loop()
}

func (r *Reconciler) loop() {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), defaultPassTimeout)
			if err := r.svc.Reconcile(ctx); err != nil {
				r.log.Println("reconcile pass:", err)
			}
			cancel()
		case <-r.stop:
			return
		}
	}
}

func (r *Reconciler) Stop() {
	close(r.stop)
	<-r.done
}
