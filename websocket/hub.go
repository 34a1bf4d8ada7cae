// backend/websocket/hub.go
package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/julioborgesigt/distribuidorback/middleware"
	"github.com/julioborgesigt/distribuidorback/models"
)

// Client é uma conexão de administrador interessada em eventos de
// atualização de dados.
type Client struct {
	Conn      *websocket.Conn
	UserID    uint
	Matricula string
}

// Hub distribui eventos de atualização (importação concluída, operações
// em massa) para os administradores conectados, para que o painel
// recarregue listas e estatísticas sem polling.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Permite todas as origens por agora. Em produção, restrinja isto.
		return true
	},
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("Cliente conectado: %s", client.Matricula)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Conn.Close()
			}
			h.mu.Unlock()
			log.Printf("Cliente desconectado: %s", client.Matricula)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
					log.Printf("Erro de escrita no websocket: %s", err)
				}
			}
			h.mu.Unlock()
		}
	}
}

// NotifyRefresh avisa os administradores conectados que os dados de
// processos mudaram; origem identifica a operação que causou a mudança.
func (h *Hub) NotifyRefresh(origem string) {
	message, err := json.Marshal(map[string]string{
		"type":   "refresh",
		"origem": origem,
	})
	if err != nil {
		log.Printf("Erro ao montar evento de atualização: %v", err)
		return
	}
	select {
	case h.broadcast <- message:
	default:
		// Sem Run ativo (ex.: testes), o evento é descartado.
	}
}

// ServeWs promove a requisição autenticada a uma conexão websocket e a
// registra no hub até a desconexão.
func (h *Hub) ServeWs(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println(err)
		return
	}

	userInterface, exists := c.Get(middleware.CtxUser)
	if !exists {
		log.Println("Usuário não encontrado no contexto do websocket")
		conn.Close()
		return
	}
	currentUser := userInterface.(models.User)

	client := &Client{
		Conn:      conn,
		UserID:    currentUser.ID,
		Matricula: currentUser.Matricula,
	}
	h.register <- client

	go func() {
		defer func() {
			h.unregister <- client
		}()
		for {
			// Apenas lê para detectar a desconexão.
			if _, _, err := client.Conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}
