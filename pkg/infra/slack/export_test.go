package slack

var BuildMessage = buildMessage
