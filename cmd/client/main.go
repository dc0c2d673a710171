package main

import (
	"bufio"
	"castle/internal/game/match"
	"castle/internal/game/view"
	"castle/internal/logging"
	"castle/internal/network"
	"castle/internal/services/cluster"
	"castle/internal/session/message"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	consul "github.com/hashicorp/consul/api"
	"go.uber.org/zap"
)

// table guarda o último snapshot e o token do assento para o rejoin.
type table struct {
	mu        sync.Mutex
	sessionID string
	seat      match.SeatID
	token     string
	node      string
	last      *view.MaskedSession
}

func (t *table) handEntity(index int) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last == nil {
		return "", fmt.Errorf("no game state yet")
	}
	hand := t.last.Hands[t.seat].Cards
	if index < 1 || index > len(hand) {
		return "", fmt.Errorf("hand has %d cards", len(hand))
	}
	return hand[index-1].ID, nil
}

// link é a conexão atual; é trocada quando o jogador dá rejoin depois de cair.
type link struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	addr    string
	alive   bool
	consul  *consul.Client
	service string
	logger  *zap.Logger
	table   *table
}

// dial tenta cada endereço até conectar e sobe o loop de leitura.
func (l *link) dial(addrs []string) error {
	for _, addr := range addrs {
		u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}
		conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
		if err != nil {
			l.logger.Warn("[Client] dial failed", zap.String("addr", addr), zap.Error(err))
			if resp != nil {
				l.logger.Warn("[Client] handshake response", zap.String("status", resp.Status))
			}
			continue
		}
		l.mu.Lock()
		l.conn, l.addr, l.alive = conn, addr, true
		l.mu.Unlock()
		fmt.Printf("Connected to %s\n", u.String())
		go l.readLoop(conn)
		return nil
	}
	return fmt.Errorf("no server reachable in %v", addrs)
}

func (l *link) readLoop(conn *websocket.Conn) {
	defer func() {
		l.mu.Lock()
		if l.conn == conn {
			l.alive = false
		}
		l.mu.Unlock()
		fmt.Println("\nConnection lost. Type 'rejoin' to get your seat back.")
	}()
	for {
		var msg network.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				fmt.Printf("\nRead error: %v\n", err)
			}
			return
		}
		printServerMessage(l.table, msg)
		// quem cria a sessão senta nela
		if msg.Type == message.TypeSessionCreated {
			var p message.SessionCreatedPayload
			if json.Unmarshal(msg.Payload, &p) == nil {
				if err := l.send("join", map[string]string{"sessionId": p.SessionID}); err != nil {
					fmt.Println("!", err)
				}
			}
		}
	}
}

func (l *link) send(msgType string, payload any) error {
	msg, err := network.NewMessage(msgType, payload)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.alive {
		return fmt.Errorf("not connected, use rejoin")
	}
	return l.conn.WriteJSON(msg)
}

// redial volta ao nó que guarda a sessão: pelo Consul quando o servidor
// anunciou o nó, senão ao último endereço usado.
func (l *link) redial() error {
	l.mu.Lock()
	alive, addr := l.alive, l.addr
	l.mu.Unlock()
	if alive {
		return nil
	}

	l.table.mu.Lock()
	node := l.table.node
	l.table.mu.Unlock()
	if l.consul != nil && node != "" {
		found, err := cluster.DiscoverInstance(l.consul, l.service, node)
		if err != nil {
			return fmt.Errorf("session node %s: %w", node, err)
		}
		addr = found
	}
	return l.dial([]string{addr})
}

func (l *link) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.alive {
		l.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
	if l.conn != nil {
		l.conn.Close()
	}
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	logger, err := logging.New("warn", true)
	if err != nil {
		log.Fatal(err)
	}

	l := &link{service: os.Getenv("SERVICE_NAME"), logger: logger, table: &table{}}
	if l.service == "" {
		l.service = "castle-session"
	}
	if consulAddr := os.Getenv("CONSUL_HTTP_ADDR"); consulAddr != "" {
		if l.consul, err = cluster.NewConsulClient(consulAddr, logger); err != nil {
			logger.Warn("[Client] consul unavailable, using static addresses", zap.Error(err))
		}
	}
	if err := l.dial(l.serverAddresses()); err != nil {
		logger.Fatal("[Client] could not connect", zap.Error(err))
	}
	defer l.close()

	printHelp()
	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if err := handleUserInput(l, scanner.Text()); err != nil {
				fmt.Println("!", err)
			}
		}
	}()

	select {
	case <-done:
	case <-interrupt:
	}
}

// serverAddresses vem de SERVER_ADDRS ou, com Consul, de qualquer instância saudável.
func (l *link) serverAddresses() []string {
	if env := os.Getenv("SERVER_ADDRS"); env != "" {
		var out []string
		for _, a := range strings.Split(env, ",") {
			out = append(out, strings.TrimSpace(a))
		}
		return out
	}
	if l.consul != nil {
		addr, err := cluster.Discover(l.consul, l.service)
		if err == nil {
			return []string{addr}
		}
		l.logger.Warn("[Client] discovery failed", zap.Error(err))
	}
	return []string{"localhost:8080"}
}

func printServerMessage(t *table, msg network.Message) {
	switch msg.Type {
	case message.TypeSeatAssigned:
		var p message.SeatAssignedPayload
		json.Unmarshal(msg.Payload, &p)
		t.mu.Lock()
		t.sessionID, t.seat, t.token, t.node = p.SessionID, p.Seat, p.Token, p.Node
		t.mu.Unlock()
		fmt.Printf("\n[You are %s in %s]\n", p.Seat, p.SessionID)
	case message.TypeSessionCreated:
		var p message.SessionCreatedPayload
		json.Unmarshal(msg.Payload, &p)
		fmt.Printf("\n[Created session %s, share the id with your opponent]\n", p.SessionID)
	case message.TypeGameUpdated:
		var v view.MaskedSession
		if err := json.Unmarshal(msg.Payload, &v); err != nil {
			fmt.Println("! bad snapshot:", err)
			return
		}
		t.mu.Lock()
		t.last = &v
		t.mu.Unlock()
		printTable(&v)
	case message.TypeNotify:
		var p message.NotifyPayload
		json.Unmarshal(msg.Payload, &p)
		fmt.Printf("\n>> %s\n", p.Text)
	case message.TypeError:
		var p message.ErrorPayload
		json.Unmarshal(msg.Payload, &p)
		fmt.Printf("\n[ERROR %s] %s\n", p.Code, p.Text)
	default:
		fmt.Printf("\n[%s] %s\n", msg.Type, msg.Payload)
	}
	fmt.Print("> ")
}

func printTable(v *view.MaskedSession) {
	fmt.Printf("\n=== turn %d | %s | to play: %s ===\n", v.TurnNumber, v.State, v.CurrentPlayer)
	for _, p := range v.Players {
		marker := " "
		if p.Seat == v.Viewer {
			marker = "*"
		}
		fmt.Printf("%s %s tower=%d wall=%d gen=%d res=%d draws=%d discards=%d time=%s deck=%d hand=%d online=%t\n",
			marker, p.Seat, p.Tower, p.Wall, p.Generators, p.Resources, p.DrawsLeft, p.DiscardsLeft,
			(time.Duration(p.TimeLeftMS) * time.Millisecond).Round(time.Second),
			v.Decks[p.Seat].Count, v.Hands[p.Seat].Count, p.Connected)
		for _, c := range v.Battlefields[p.Seat].Cards {
			fmt.Printf("    in play: %s\n", c.Name)
		}
	}
	if v.Viewer != "" {
		for i, c := range v.Hands[v.Viewer].Cards {
			fmt.Printf("  [%d] %s (cost %d)\n", i+1, c.Name, c.Cost)
		}
	}
	for _, d := range v.DelayedEffects {
		fmt.Printf("  pending: %s's %s on turn %d\n", d.Owner, d.Source, d.Turn)
	}
}

func printHelp() {
	fmt.Println("Commands: new | join <id> | rejoin | draw | yield | play <n> | discard <n> | resign | time | help")
}

func handleUserInput(l *link, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	t := l.table
	t.mu.Lock()
	sessionID, token := t.sessionID, t.token
	t.mu.Unlock()

	switch fields[0] {
	case "help":
		printHelp()
		return nil
	case "new":
		return l.send("create", nil)
	case "join":
		if len(fields) < 2 {
			return fmt.Errorf("usage: join <sessionId>")
		}
		return l.send("join", map[string]string{"sessionId": fields[1]})
	case "rejoin":
		if token == "" {
			return fmt.Errorf("no seat to rejoin")
		}
		if err := l.redial(); err != nil {
			return err
		}
		return l.send("rejoin", map[string]string{"sessionId": sessionID, "token": token})
	case "draw", "yield":
		return l.send("move", map[string]any{"sessionId": sessionID, "type": fields[0]})
	case "play", "discard":
		if len(fields) < 2 {
			return fmt.Errorf("usage: %s <hand index>", fields[0])
		}
		index, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("invalid index %q", fields[1])
		}
		entityID, err := t.handEntity(index)
		if err != nil {
			return err
		}
		return l.send("move", map[string]any{
			"sessionId": sessionID,
			"type":      fields[0],
			"details":   map[string]string{"entityId": entityID},
		})
	case "resign":
		return l.send("resign", map[string]string{"sessionId": sessionID})
	case "time":
		return l.send("checkTime", map[string]string{"sessionId": sessionID})
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}
