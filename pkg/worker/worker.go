package worker

import (
	"sync/atomic"

	"github.com/hbomb79/Trove/pkg/logger"
)

var workerLogger = logger.Get("Worker")

type WorkerWakeupChan chan int
type WorkerStatus int32

const (
	SLEEPING WorkerStatus = iota
	WORKING
	FINISHED
)

// WorkerTaskFn is called by a worker whenever it wakes. The boolean
// return indicates whether the worker performed any work: if true, the
// worker will immediately call the function again, otherwise the worker
// will sleep until it is woken by it's pool.
type WorkerTaskFn func(Worker) (bool, error)

type Worker interface {
	Start()
	Status() WorkerStatus
	WakeupChan() WorkerWakeupChan
	Label() string
	Sleep() bool
	Close()
}

type taskWorker struct {
	label         string
	task          WorkerTaskFn
	wakeupChan    WorkerWakeupChan
	currentStatus atomic.Int32
}

func NewWorker(label string, task WorkerTaskFn) *taskWorker {
	return &taskWorker{
		label:      label,
		task:       task,
		wakeupChan: make(WorkerWakeupChan, 1),
	}
}

// Start runs the workers task function in a loop, sleeping whenever the
// task reports there was nothing to do. Start returns once the workers
// wakeup channel has been closed.
func (worker *taskWorker) Start() {
	workerLogger.Emit(logger.NEW, "Starting worker with label %v\n", worker.label)
	worker.setStatus(WORKING)

	for {
		didWork, err := worker.task(worker)
		if err != nil {
			workerLogger.Emit(logger.ERROR, "Worker with label %v has reported an error(%T): %v\n", worker.label, err, err.Error())
		}

		if didWork {
			select {
			case _, ok := <-worker.wakeupChan:
				if !ok {
					worker.setStatus(FINISHED)
					workerLogger.Emit(logger.STOP, "Worker with label %v has stopped\n", worker.label)
					return
				}
			default:
			}

			continue
		}

		if !worker.Sleep() {
			break
		}
	}

	workerLogger.Emit(logger.STOP, "Worker with label %v has stopped\n", worker.label)
}

// Status returns the current status of this worker
func (worker *taskWorker) Status() WorkerStatus {
	return WorkerStatus(worker.currentStatus.Load())
}

func (worker *taskWorker) WakeupChan() WorkerWakeupChan {
	return worker.wakeupChan
}

// Close closes the Worker by closing the WakeChan.
// Note that this does not interupt currently running
// goroutines.
func (worker *taskWorker) Close() {
	close(worker.wakeupChan)
}

// Label returns the label for this worker
func (worker *taskWorker) Label() string {
	return worker.label
}

// Sleep puts a worker to sleep until it's wakeupChan is
// signalled from another goroutine. Returns a boolean that
// is 'false' if the wakeup channel was closed - indicating
// the worker should quit.
func (worker *taskWorker) Sleep() (isAlive bool) {
	worker.setStatus(SLEEPING)

	if _, isAlive = <-worker.wakeupChan; isAlive {
		worker.setStatus(WORKING)
	} else {
		workerLogger.Emit(logger.STOP, "Wakeup channel for worker '%v' has been closed - worker is exiting\n", worker.label)
		worker.setStatus(FINISHED)
	}

	return isAlive
}

func (worker *taskWorker) setStatus(status WorkerStatus) {
	worker.currentStatus.Store(int32(status))
}
