// Command testclient exercises a running backend end to end: it
// registers and logs in a user, opens the alert socket, streams a few
// synthetic frame batches over the frame socket and ends the session.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"DRIVING_ANALYSIS/go-backend/internal/models"
	"DRIVING_ANALYSIS/go-backend/internal/protocol"
)

const (
	testEmail = "test@example.com"
	testUser  = "testuser"
	testPass  = "Test123456"
)

var backendHost = flag.String("host", "localhost:8080", "backend host:port")

func httpURL(path string) string { return "http://" + *backendHost + path }
func wsURL(path string) string   { return "ws://" + *backendHost + path }

func testHealth() error {
	fmt.Println("\n[TEST] Testing /api/health...")
	resp, err := http.Get(httpURL("/api/health"))
	if err != nil {
		return fmt.Errorf("health check failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("✓ Health check: %s\n", string(body))
	return nil
}

func testRegister() error {
	fmt.Println("\n[TEST] Testing /api/auth/register...")

	jsonData, _ := json.Marshal(models.RegisterRequest{
		Email:    testEmail,
		Username: testUser,
		Password: testPass,
	})
	resp, err := http.Post(httpURL("/api/auth/register"), "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("registration failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	switch resp.StatusCode {
	case http.StatusCreated:
		fmt.Printf("✓ Registration successful: %s\n", string(body))
		return nil
	case http.StatusConflict:
		fmt.Printf("⚠ User already exists (this is OK)\n")
		return nil
	}
	return fmt.Errorf("registration failed: status %d, body: %s", resp.StatusCode, string(body))
}

func testLogin() (*models.AuthResponse, error) {
	fmt.Println("\n[TEST] Testing /api/auth/login...")

	jsonData, _ := json.Marshal(models.LoginRequest{
		Username: testUser,
		Password: testPass,
	})
	resp, err := http.Post(httpURL("/api/auth/login"), "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("login failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var authResp models.AuthResponse
	if err := json.Unmarshal(body, &authResp); err != nil {
		return nil, fmt.Errorf("bad login response: %v", err)
	}
	fmt.Printf("✓ Login successful, user %d, token received\n", authResp.UserID)
	return &authResp, nil
}

// watchAlerts subscribes to the alert socket and prints every pushed
// event until the connection closes.
func watchAlerts(userID int64) (*websocket.Conn, error) {
	fmt.Println("\n[TEST] Opening alert socket...")

	conn, _, err := websocket.DefaultDialer.Dial(
		fmt.Sprintf("%s?userId=%d", wsURL("/ws/alerts"), userID), nil)
	if err != nil {
		return nil, fmt.Errorf("alert socket dial failed: %v", err)
	}

	go func() {
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			fmt.Printf("⚡ Alert event: %s\n", string(payload))
		}
	}()

	fmt.Println("✓ Alert socket open")
	return conn, nil
}

func streamBatches(conn *websocket.Conn, userID int64, batches int) error {
	fmt.Printf("\n[TEST] Streaming %d frame batches...\n", batches)

	for i := 0; i < batches; i++ {
		batch := &models.FrameBatch{
			UserID:    userID,
			BatchID:   int32(i),
			Timestamp: time.Now().UnixMilli(),
			Frames: []models.Frame{
				{FrameID: 0, Data: syntheticFrame(0x10)},
				{FrameID: 1, Data: syntheticFrame(0x20)},
				{FrameID: 2, Data: syntheticFrame(0x30)},
			},
		}

		payload, err := protocol.Encode(batch)
		if err != nil {
			return fmt.Errorf("encode batch %d: %v", i, err)
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
			return fmt.Errorf("send batch %d: %v", i, err)
		}

		_, ack, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read ack for batch %d: %v", i, err)
		}
		fmt.Printf("✓ Batch %d ack: %s\n", i, string(ack))
		time.Sleep(200 * time.Millisecond)
	}
	return nil
}

func endSession(conn *websocket.Conn, userID, sessionID int64) error {
	fmt.Println("\n[TEST] Ending session...")

	req := models.SessionEndRequest{
		Type:         "END_SESSION",
		UserID:       userID,
		SessionID:    sessionID,
		EndTimestamp: time.Now().UnixMilli(),
	}
	payload, _ := json.Marshal(req)
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("send END_SESSION: %v", err)
	}

	_, reply, err := conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("read session end reply: %v", err)
	}
	fmt.Printf("✓ Session end reply: %s\n", string(reply))
	return nil
}

// syntheticFrame builds a recognizable dummy JPEG-ish payload.
func syntheticFrame(fill byte) []byte {
	data := make([]byte, 1024)
	data[0], data[1] = 0xFF, 0xD8
	for i := 2; i < len(data); i++ {
		data[i] = fill
	}
	return data
}

func main() {
	flag.Parse()

	fmt.Println("=== Driving Analysis Backend Test Client ===")

	if err := testHealth(); err != nil {
		log.Fatalf("FAIL: %v", err)
	}
	if err := testRegister(); err != nil {
		log.Fatalf("FAIL: %v", err)
	}
	authResp, err := testLogin()
	if err != nil {
		log.Fatalf("FAIL: %v", err)
	}

	alertConn, err := watchAlerts(authResp.UserID)
	if err != nil {
		log.Fatalf("FAIL: %v", err)
	}
	defer alertConn.Close()

	fmt.Println("\n[TEST] Opening frame socket...")
	frameConn, _, err := websocket.DefaultDialer.Dial(wsURL("/ws"), nil)
	if err != nil {
		log.Fatalf("FAIL: frame socket dial failed: %v", err)
	}
	defer frameConn.Close()
	fmt.Println("✓ Frame socket open")

	if err := streamBatches(frameConn, authResp.UserID, 3); err != nil {
		log.Fatalf("FAIL: %v", err)
	}

	sessionID := time.Now().Unix()
	if err := endSession(frameConn, authResp.UserID, sessionID); err != nil {
		log.Fatalf("FAIL: %v", err)
	}

	// Leave the alert socket open briefly to catch trailing events.
	time.Sleep(time.Second)
	fmt.Println("\n=== All tests passed ===")
}
