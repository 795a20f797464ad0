package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime/debug"
	"strconv"

	. "github.com/chesskit/ucidriver/internal/helpers"
	"github.com/chesskit/ucidriver/internal/uci"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

type SearchRequest struct {
	Fen      string            `json:"fen"`
	Moves    []string          `json:"moves"`
	Depth    *int              `json:"depth"`
	MoveTime *int              `json:"movetime"`
	Options  map[string]string `json:"options"`
}

func (r SearchRequest) String() string {
	return fmt.Sprint("SearchRequest: ", r.Fen, ", ", r.Moves, ", depth: ", r.Depth, ", movetime: ", r.MoveTime)
}

type SearchResponse struct {
	BestMove string `json:"bestmove"`
	Ponder   string `json:"ponder,omitempty"`
}

type LogForwarding struct {
	writeCallback func(message string)
}

func (l *LogForwarding) Println(v ...any) {
	l.writeCallback(fmt.Sprintln(v...))
}
func (l *LogForwarding) Printf(format string, v ...any) {
	l.writeCallback(fmt.Sprintf(format, v...))
}
func (l *LogForwarding) Print(v ...any) {
	l.writeCallback(fmt.Sprint(v...))
}

func jobForRequest(request SearchRequest) uci.SearchJob {
	job := uci.NewSearchJob()

	for key, value := range request.Options {
		job = job.EngineOption(key, value)
	}

	switch {
	case request.Fen == "" && len(request.Moves) == 0:
		job = job.Pos(uci.Startpos())
	case request.Fen == "":
		job = job.Pos(uci.StartposAndMoves(request.Moves...))
	case len(request.Moves) == 0:
		job = job.Pos(uci.Fen(request.Fen))
	default:
		job = job.Pos(uci.FenAndMoves(request.Fen, request.Moves...))
	}

	if request.Depth != nil {
		job = job.GoOption("depth", strconv.Itoa(*request.Depth))
	} else if request.MoveTime != nil {
		job = job.GoOption("movetime", strconv.Itoa(*request.MoveTime))
	} else {
		job = job.Tc(uci.DefaultTimeControl())
	}

	return job
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, fmt.Sprint(r))
			fmt.Fprintln(os.Stderr, string(debug.Stack()))
		}
	}()

	args := os.Args[1:]
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: server <engine-path> [port]")
		os.Exit(1)
	}
	enginePath := args[0]

	port := 8002
	for _, arg := range args[1:] {
		if parsed, err := strconv.ParseInt(arg, 10, 64); err == nil {
			port = int(parsed)
		}
	}

	// one engine shared by the /search endpoint; the session serializes
	// searches itself
	engine, err := uci.NewEngine(enginePath)
	if !IsNil(err) {
		panic(err)
	}
	defer engine.Close()

	var search = func(w http.ResponseWriter, r *http.Request) {
		var request SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Println("search:", request)

		result, err := engine.Search(jobForRequest(request))
		if !IsNil(err) {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(SearchResponse{
			BestMove: result.BestMove.ValueOr(""),
			Ponder:   result.Ponder.ValueOr(""),
		})
	}

	var upgrader = websocket.Upgrader{}

	var analyze = func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		defer c.Close()

		var forward = func(message string) {
			bytes, err := json.Marshal([]string{message})
			if err != nil {
				fmt.Fprintln(os.Stderr, fmt.Sprint("logging: json marshal: ", err))
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, bytes); err != nil {
				fmt.Fprintln(os.Stderr, fmt.Sprint("logging: websocket: ", err))
			}
		}

		// each socket gets its own engine so connections can't stall each
		// other, and engine chatter is forwarded to the client
		connEngine, wrapped := uci.NewEngine(enginePath, uci.WithLogger(&LogForwarding{
			writeCallback: func(message string) {
				forward("engine: " + message)
			},
		}))
		if !IsNil(wrapped) {
			log.Println("engine:", wrapped)
			forward("error: " + wrapped.Error())
			return
		}
		defer connEngine.Close()

		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("websocket:", err)
				break
			}

			var request SearchRequest
			if err := json.Unmarshal(message, &request); err != nil {
				forward("error: " + err.Error())
				continue
			}
			log.Println("analyze:", request)

			result, wrapped := connEngine.Search(jobForRequest(request))
			if !IsNil(wrapped) {
				forward("error: " + wrapped.Error())
				break
			}

			bytes, err := json.Marshal(SearchResponse{
				BestMove: result.BestMove.ValueOr(""),
				Ponder:   result.Ponder.ValueOr(""),
			})
			if err != nil {
				forward("error: " + err.Error())
				continue
			}
			if err := c.WriteMessage(websocket.TextMessage, bytes); err != nil {
				log.Println("websocket:", err)
				break
			}
		}
	}

	log.Println("serving at", port)

	router := mux.NewRouter()
	router.HandleFunc("/search", search).Methods("POST")
	router.HandleFunc("/analyze", analyze)
	if err := http.ListenAndServe(fmt.Sprintf(":%v", port), router); err != nil {
		panic(err)
	}
}
