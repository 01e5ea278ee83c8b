// Command client is a small CLI used to exercise a running crossbook
// server: place orders, cancel them, and print execution reports as they
// arrive. Adapted from the teacher repository's cmd/client.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"crossbook/internal/common"
	crossnet "crossbook/internal/net"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:9001", "address of the crossbook server")
	owner := flag.String("owner", "", "owner username (required)")
	action := flag.String("action", "place", "action to perform: place, cancel, modify")

	sideStr := flag.String("side", "buy", "order side: buy or sell")
	typeStr := flag.String("type", "gtc", "order type: gtc, fak, fok, gfd, market")
	price := flag.Int64("price", 10000, "limit price in ticks")
	qtyStr := flag.String("qty", "10", "quantity, or comma-separated list (e.g. 10,20,50)")
	orderID := flag.Uint64("id", 0, "order id (required for place/cancel/modify)")

	flag.Parse()

	if *owner == "" {
		fmt.Println("error: -owner is required")
		flag.Usage()
		os.Exit(1)
	}

	conn, err := net.Dial("tcp", *serverAddr)
	if err != nil {
		log.Fatalf("failed to connect to %s: %v", *serverAddr, err)
	}
	defer conn.Close()
	fmt.Printf("connected to %s as %q\n", *serverAddr, *owner)

	go readReports(conn)

	side := common.Buy
	if strings.EqualFold(*sideStr, "sell") {
		side = common.Sell
	}
	orderType := parseOrderType(*typeStr)

	switch strings.ToLower(*action) {
	case "place":
		for i, qty := range parseQuantities(*qtyStr) {
			id := common.OrderID(*orderID) + common.OrderID(i)
			if err := sendNewOrder(conn, id, orderType, side, common.Price(*price), qty, *owner); err != nil {
				log.Printf("failed to place order: %v", err)
			} else {
				fmt.Printf("-> sent %s %s order id=%d qty=%d price=%d\n", strings.ToUpper(*sideStr), *typeStr, id, qty, *price)
			}
			time.Sleep(5 * time.Millisecond)
		}
	case "cancel":
		if err := sendCancelOrder(conn, common.OrderID(*orderID)); err != nil {
			log.Printf("failed to send cancel: %v", err)
		} else {
			fmt.Printf("-> sent cancel for id=%d\n", *orderID)
		}
	case "modify":
		qty := parseQuantities(*qtyStr)[0]
		if err := sendModifyOrder(conn, common.OrderID(*orderID), side, common.Price(*price), qty); err != nil {
			log.Printf("failed to send modify: %v", err)
		} else {
			fmt.Printf("-> sent modify for id=%d\n", *orderID)
		}
	default:
		log.Fatalf("unknown action: %s", *action)
	}

	fmt.Println("listening for reports... (ctrl-c to exit)")
	select {}
}

func parseOrderType(s string) common.OrderType {
	switch strings.ToLower(s) {
	case "fak":
		return common.FillAndKill
	case "fok":
		return common.FillOrKill
	case "gfd":
		return common.GoodForDay
	case "market":
		return common.Market
	default:
		return common.GoodTillCancel
	}
}

func parseQuantities(input string) []common.Quantity {
	var out []common.Quantity
	for _, p := range strings.Split(input, ",") {
		if v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64); err == nil {
			out = append(out, common.Quantity(v))
		} else {
			log.Printf("warning: invalid quantity %q, skipping", p)
		}
	}
	return out
}

func sendNewOrder(conn net.Conn, id common.OrderID, orderType common.OrderType, side common.Side, price common.Price, qty common.Quantity, owner string) error {
	usernameLen := len(owner)
	buf := make([]byte, crossnet.BaseMessageHeaderLen+crossnet.NewOrderMessageHeaderLen+usernameLen)

	binary.BigEndian.PutUint16(buf[0:2], uint16(crossnet.NewOrder))
	binary.BigEndian.PutUint64(buf[2:10], uint64(id))
	binary.BigEndian.PutUint16(buf[10:12], uint16(orderType))
	buf[12] = byte(side)
	binary.BigEndian.PutUint64(buf[13:21], uint64(price))
	binary.BigEndian.PutUint64(buf[21:29], uint64(qty))
	buf[29] = uint8(usernameLen)
	copy(buf[30:], owner)

	_, err := conn.Write(buf)
	return err
}

func sendCancelOrder(conn net.Conn, id common.OrderID) error {
	buf := make([]byte, crossnet.BaseMessageHeaderLen+crossnet.CancelOrderMessageHeaderLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(crossnet.CancelOrder))
	binary.BigEndian.PutUint64(buf[2:10], uint64(id))
	_, err := conn.Write(buf)
	return err
}

func sendModifyOrder(conn net.Conn, id common.OrderID, side common.Side, price common.Price, qty common.Quantity) error {
	buf := make([]byte, crossnet.BaseMessageHeaderLen+crossnet.ModifyOrderMessageHeaderLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(crossnet.ModifyOrder))
	binary.BigEndian.PutUint64(buf[2:10], uint64(id))
	buf[10] = byte(side)
	binary.BigEndian.PutUint64(buf[11:19], uint64(price))
	binary.BigEndian.PutUint64(buf[19:27], uint64(qty))
	_, err := conn.Write(buf)
	return err
}

const reportFixedHeaderLen = 1 + 16 + 8 + 1 + 8 + 8 + 4

func readReports(conn net.Conn) {
	for {
		header := make([]byte, reportFixedHeaderLen)
		if _, err := io.ReadFull(conn, header); err != nil {
			if err != io.EOF {
				log.Printf("connection lost: %v", err)
			}
			os.Exit(0)
		}

		msgType := crossnet.ReportMessageType(header[0])
		correlationID, _ := uuid.FromBytes(header[1:17])
		orderID := binary.BigEndian.Uint64(header[17:25])
		side := common.Side(header[25])
		price := int64(binary.BigEndian.Uint64(header[26:34]))
		qty := binary.BigEndian.Uint64(header[34:42])
		errLen := binary.BigEndian.Uint32(header[42:46])

		var errStr string
		if errLen > 0 {
			body := make([]byte, errLen)
			if _, err := io.ReadFull(conn, body); err != nil {
				log.Printf("error reading report body: %v", err)
				return
			}
			errStr = string(body)
		}

		if msgType == crossnet.ErrorReport {
			fmt.Printf("\n[ERROR] order=%d corr=%s msg=%s\n", orderID, correlationID, errStr)
			continue
		}
		fmt.Printf("\n[EXECUTION] order=%d side=%s qty=%d price=%d corr=%s\n", orderID, side, qty, price, correlationID)
	}
}
