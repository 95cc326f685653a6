package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

type socketClient struct {
	id     uuid.UUID
	socket *websocket.Conn

	// gorilla connections support one concurrent writer
	writeLock sync.Mutex
}

func (client *socketClient) SendMessage(message *SocketMessage) error {
	client.writeLock.Lock()
	defer client.writeLock.Unlock()

	if err := client.socket.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}

	return client.socket.WriteJSON(message)
}

// Read starts a read-loop on the clients websocket connection, emitting
// all received messages on the channel provided. If the connection
// experiences an error, or the JSON unmarshalling fails, this error will be returned
// and consequently the read loop will close. It is the responsibility of the caller
// to de-register the client once the connection closes. The loop also
// exits once the done channel is closed.
func (client *socketClient) Read(receiveCh chan<- *SocketMessage, done <-chan struct{}) error {
	for {
		var recv SocketMessage
		if err := client.socket.ReadJSON(&recv); err != nil {
			return err
		}

		id := client.id
		recv.Origin = &id
		select {
		case receiveCh <- &recv:
		case <-done:
			return nil
		}
	}
}

func (client *socketClient) Close() {
	client.socket.Close()
}
