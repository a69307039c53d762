package ebus

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/dribbe/glucomon/pkg/glucose"
)

const TopicReading = "glucose.reading"

type Message struct {
	Topic  *string
	Update *glucose.Update
}

var (
	initOnce  sync.Once
	subs      = make(map[string][]chan glucose.Update)
	subsMutex sync.Mutex

	subsAll      = make([]chan *Message, 0)
	subsAllMutex sync.Mutex

	inChan       = make(chan *Message, 100)
	unsubChan    = make(chan chan glucose.Update, 100)
	unsubAllChan = make(chan chan *Message, 100)
	cache        *ttlcache.Cache[string, glucose.Update]
)

func init() {
	initOnce.Do(func() {
		// a CGM reading older than 15 minutes is stale, the replay
		// cache forgets it rather than hand it to new windows
		cache = ttlcache.New[string, glucose.Update](
			ttlcache.WithTTL[string, glucose.Update](15 * time.Minute),
		)
		go run()
	})
}

func run() {
	for {
		select {
		case msg := <-inChan:
			cache.Set(*msg.Topic, *msg.Update, ttlcache.DefaultTTL)
			for _, sub := range subsAll {
				select {
				case sub <- msg:
				default:
					UnsubscribeAll(sub)
				}
			}
			for _, sub := range subs[*msg.Topic] {
				select {
				case sub <- *msg.Update:
				default:
				}
			}
		case unsub := <-unsubAllChan:
			subsAllMutex.Lock()
			for i, sub := range subsAll {
				if sub == unsub {
					log.Println("unsubAll", unsub)
					subsAll = append(subsAll[:i], subsAll[i+1:]...)
					close(sub)
					break
				}
			}
			subsAllMutex.Unlock()
		case unsub := <-unsubChan:
			subsMutex.Lock()
		outer:
			for topic, subz := range subs {
				for i, sub := range subz {
					if sub == unsub {
						log.Println("Unsubscribe", topic)
						subs[topic] = append(subz[:i], subz[i+1:]...)
						close(unsub)
						if len(subs[topic]) == 0 {
							delete(subs, topic)
						}
						break outer
					}
				}
			}
			subsMutex.Unlock()
		}
	}
}

func Publish(topic string, u glucose.Update) error {
	select {
	case inChan <- &Message{Topic: &topic, Update: &u}:
		return nil
	default:
		return errors.New("publish channel full")
	}
}

func SubscribeAll() chan *Message {
	respChan := make(chan *Message, 100)
	subsAllMutex.Lock()
	subsAll = append(subsAll, respChan)
	subsAllMutex.Unlock()

	cache.Range(func(item *ttlcache.Item[string, glucose.Update]) bool {
		k := item.Key()
		v := item.Value()
		respChan <- &Message{Topic: &k, Update: &v}
		return true
	})
	return respChan
}

func UnsubscribeAll(channel chan *Message) {
	unsubAllChan <- channel
}

// SubscribeFunc returns a function that can be used to unsubscribe the function
func SubscribeFunc(topic string, f func(glucose.Update)) func() {
	respChan := Subscribe(topic)
	go func() {
		for v := range respChan {
			f(v)
		}
	}()
	return func() {
		Unsubscribe(respChan)
	}
}

// Subscribe delivers the cached last update for the topic first, so a
// window opened between polls still renders the current reading.
func Subscribe(topic string) chan glucose.Update {
	log.Println("Subscribe", topic)
	respChan := make(chan glucose.Update, 100)
	subsMutex.Lock()
	subs[topic] = append(subs[topic], respChan)
	subsMutex.Unlock()
	if itm := cache.Get(topic); itm != nil {
		respChan <- itm.Value()
	}
	return respChan
}

func Unsubscribe(channel chan glucose.Update) {
	unsubChan <- channel
}
