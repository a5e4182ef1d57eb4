package monitor

import (
	"encoding/json"

	"github.com/jeffleon2/draftea-settlement-service/internal/metrics"
	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/sirupsen/logrus"
)

// NotificationFunc receives an account notification for a known watch.
type NotificationFunc func(subscriptionID uint64, snapshot json.RawMessage)

// Dispatcher classifies inbound frames from the subscription channel. It
// never panics on bad input; anything it cannot use is logged and dropped.
type Dispatcher struct {
	registry *Registry
	notify   NotificationFunc
}

func NewDispatcher(registry *Registry, notify NotificationFunc) *Dispatcher {
	return &Dispatcher{registry: registry, notify: notify}
}

func (d *Dispatcher) Dispatch(raw []byte) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("recovered while dispatching websocket message: %v", r)
		}
	}()

	var msg models.RPCMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		metrics.RPCMessagesTotal.WithLabelValues("malformed").Inc()
		logrus.Warnf("dropping malformed websocket message: %v", err)
		return
	}

	if subscriptionID, ok := msg.NumericResult(); ok {
		if requestID, ok := msg.NumericID(); ok {
			d.acknowledge(requestID, subscriptionID)
			return
		}
	}

	if msg.Method == models.MethodAccountNotification {
		d.notification(msg.Params)
		return
	}

	if msg.Error != nil {
		metrics.RPCMessagesTotal.WithLabelValues("error").Inc()
		logrus.WithField("id", string(msg.ID)).Warnf("websocket request failed: %v", msg.Error)
		return
	}

	metrics.RPCMessagesTotal.WithLabelValues("ignored").Inc()
	logrus.Debugf("ignoring websocket message: %s", raw)
}

func (d *Dispatcher) acknowledge(requestID, subscriptionID uint64) {
	metrics.RPCMessagesTotal.WithLabelValues("ack").Inc()
	if !d.registry.Promote(requestID, subscriptionID) {
		logrus.Debugf("acknowledgement for unknown request %d (subscription %d)", requestID, subscriptionID)
		return
	}
	logrus.WithFields(logrus.Fields{
		"request_id":      requestID,
		"subscription_id": subscriptionID,
	}).Info("account subscription active")
}

func (d *Dispatcher) notification(rawParams json.RawMessage) {
	metrics.RPCMessagesTotal.WithLabelValues("notification").Inc()

	var params models.AccountNotificationParams
	if err := json.Unmarshal(rawParams, &params); err != nil {
		logrus.Warnf("dropping account notification with bad params: %v", err)
		return
	}

	if _, ok := d.registry.Find(params.Subscription); !ok {
		logrus.Infof("account notification for unknown subscription %d", params.Subscription)
		return
	}
	d.notify(params.Subscription, params.Result)
}
